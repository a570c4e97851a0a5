package nfa

import "github.com/pkg/errors"

var (
	// ErrFinalIndefinite is returned when `onfinal` annotates a regex that
	// admits the empty match: there is no definite last byte to decorate.
	ErrFinalIndefinite = errors.New("onfinal: regex has no definite last byte")
	// ErrAmbiguousEOF is returned when two distinct, equally-guarded paths
	// to the accept node carry different exit action sequences.
	ErrAmbiguousEOF = errors.New("ambiguous eof actions")
	// ErrInternal flags a builder invariant violation; it should never
	// surface from a well-formed desugared AST.
	ErrInternal = errors.New("nfa: internal construction error")
)
