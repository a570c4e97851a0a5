package codegen

import "github.com/pkg/errors"

var (
	// ErrPreconditionsNeedGoto is returned by the table generator when the
	// machine has any precondition-guarded transition (spec §4.5, §4.7).
	ErrPreconditionsNeedGoto = errors.New("codegen: table generator cannot emit precondition-guarded transitions, use the goto generator")

	// ErrActionSetMismatch is returned when the caller's action map is
	// missing an action the machine references, or carries extras.
	ErrActionSetMismatch = errors.New("codegen: action set does not match the actions the machine references")

	// ErrMacroArity is returned when a pseudomacro is invoked with the
	// wrong number of arguments.
	ErrMacroArity = errors.New("codegen: pseudomacro called with wrong number of arguments")

	// ErrEscapeOutsideAction is returned when `escape` appears in code
	// that is not an action fragment (e.g. init code).
	ErrEscapeOutsideAction = errors.New("codegen: escape used outside action scope")

	// ErrUnmatchedMacroParen is a malformed pseudomacro call.
	ErrUnmatchedMacroParen = errors.New("codegen: unmatched '(' in pseudomacro call")
)
