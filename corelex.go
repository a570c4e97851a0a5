// Package corelex compiles an annotated regular expression into a
// deterministic byte-level automaton and emits Go source that scans it,
// either as a dense transition table or as a goto-threaded state network
// (spec §6 External Interfaces). It is the public assembly of the
// byteset, ast, nfa, dfa, and codegen packages.
package corelex

import (
	"io"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/codegen"
	"github.com/corelex/corelex/dfa"
	"github.com/corelex/corelex/nfa"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Re-exported annotation surface: callers build a regex tree with Parse,
// attach hook-point actions with OnEnter/OnExit/OnFinal/OnAll, and attach
// host preconditions with Precond, all before passing it to Compile.
type (
	Node        = ast.Node
	Event       = ast.Event
	Polarity    = ast.Polarity
	PrecondWhen = ast.PrecondWhen
)

const (
	OnEnterEvent = ast.EventEnter
	OnExitEvent  = ast.EventExit
	OnFinalEvent = ast.EventFinal
	OnAllEvent   = ast.EventAll

	PolarityTrue  = ast.PolarityTrue
	PolarityFalse = ast.PolarityFalse
	PolarityBoth  = ast.PolarityBoth

	WhenEnter = ast.WhenEnter
	WhenAll   = ast.WhenAll
)

// Parse reads pattern with the regex grammar (spec §4.2): literals,
// escapes, `.`, classes, grouping, `* + ?`, concatenation and `|`. The
// pattern syntax has no intersection, difference or negation operators;
// those are built with ast.Isec, ast.Diff and ast.Neg.
func Parse(pattern string) (*Node, error) {
	logrus.WithField("pattern", pattern).Debug("corelex: parsing pattern")
	return ast.Parse(pattern)
}

// OnEnter attaches actions run on every transition into n's fragment.
func OnEnter(n *Node, actions ...string) *Node { return ast.OnEnter(n, actions...) }

// OnExit attaches actions run on every transition out of n's fragment.
func OnExit(n *Node, actions ...string) *Node { return ast.OnExit(n, actions...) }

// OnFinal attaches actions run on every byte transition that completes a
// match of n. Compile rejects this on a nullable fragment; a fragment that
// can continue past a match is not rejected.
func OnFinal(n *Node, actions ...string) *Node { return ast.OnFinal(n, actions...) }

// OnAll attaches actions run on the transition into n's fragment, ahead of
// its enter actions; later transitions within the fragment do not repeat
// them.
func OnAll(n *Node, actions ...string) *Node { return ast.OnAll(n, actions...) }

// Precond attaches a named host-supplied guard to n.
func Precond(n *Node, name string, when PrecondWhen, polarity Polarity) *Node {
	return ast.SetPrecond(n, name, when, polarity)
}

// Machine is a compiled, minimized automaton ready for code generation or
// direct interpretation.
type Machine struct {
	m *dfa.Machine
}

// Compile runs the full pipeline spec §6's `compile` names: desugar to the
// foundational algebra, Thompson-build an NFA, eliminate epsilons,
// subset-construct a DFA, then minimize it (spec §4.4-§4.5, §5).
func Compile(root *Node) (*Machine, error) {
	logrus.Debug("corelex: desugaring")
	desugared := ast.Desugar(root)

	logrus.Debug("corelex: building nfa")
	g, err := nfa.Build(desugared)
	if err != nil {
		return nil, errors.Wrap(err, "corelex: build nfa")
	}

	logrus.Debug("corelex: determinizing")
	dm, err := dfa.Build(g)
	if err != nil {
		return nil, errors.Wrap(err, "corelex: determinize")
	}

	logrus.Debug("corelex: minimizing")
	min := dfa.Minimize(dm)

	logrus.WithField("states", len(min.States)-1).Debug("corelex: compiled")
	return &Machine{m: min}, nil
}

// StateCount reports the number of reachable DFA states, excluding the
// unused id-0 slot.
func (m *Machine) StateCount() int { return len(m.m.States) - 1 }

// Generator selects the table or goto code emission strategy.
type Generator = codegen.Generator

const (
	GeneratorTable = codegen.GeneratorTable
	GeneratorGoto  = codegen.GeneratorGoto
)

// CodeGenContext configures code emission (spec §6).
type CodeGenContext = codegen.Context

// CodeGenOption is a functional option for NewCodeGenContext.
type CodeGenOption = codegen.Option

var (
	WithVariableNames = codegen.WithVariableNames
	WithGenerator     = codegen.WithGenerator
	WithGetByte       = codegen.WithGetByte
	WithClean         = codegen.WithClean
)

// NewCodeGenContext builds a CodeGenContext with spec defaults, then
// applies opts.
func NewCodeGenContext(opts ...CodeGenOption) *CodeGenContext {
	return codegen.NewContext(opts...)
}

// GenerateCode emits a complete scan function bound to m's actions (spec
// §6 generate_code). actions maps every action name the compiled regex
// references to the Go source fragment that implements it; fragments may
// use the pseudomacro placeholders spec §4.8 defines.
func (m *Machine) GenerateCode(ctx *CodeGenContext, funcName string, actions map[string]string) (string, error) {
	return codegen.GenerateCode(ctx, funcName, m.m, actions)
}

// GenerateInitCode emits just the scan loop's initial state (spec §6
// generate_init_code), for callers assembling a scan function by hand.
func GenerateInitCode(ctx *CodeGenContext) (string, error) {
	return codegen.GenerateInitCode(ctx)
}

// GenerateExecCode emits just the scan loop body (spec §6
// generate_exec_code).
func (m *Machine) GenerateExecCode(ctx *CodeGenContext, actions map[string]string) (string, error) {
	return codegen.GenerateExecCode(ctx, m.m, actions)
}

// GenerateInputErrorCode emits the shared error-reporter call (spec §6
// generate_input_error_code).
func GenerateInputErrorCode(ctx *CodeGenContext) (string, error) {
	return codegen.GenerateInputErrorCode(ctx)
}

// GenerateBufferValidator emits a standalone validator function for m
// (spec §6 generate_buffer_validator): -1 on a full match, 0 on
// unexpected EOF in a non-accept state, or the 1-based offending byte
// position. goto selects the generation strategy required when the
// regex carries preconditions.
func (m *Machine) GenerateBufferValidator(funcName string, goTo bool) (string, error) {
	gen := codegen.GeneratorTable
	if goTo {
		gen = codegen.GeneratorGoto
	}
	ctx := codegen.NewContext(codegen.WithGenerator(gen))
	return codegen.GenerateBufferValidator(ctx, funcName, m.m)
}

// WriteNFADot and WriteDFADot are a supplemental debugging aid with no
// analogue in spec §6: they render the pre- and post-determinization
// automata as Graphviz DOT, grounded on the teacher's dumpDotGraph.
func WriteNFADot(root *Node, w io.Writer) error {
	g, err := nfa.Build(ast.Desugar(root))
	if err != nil {
		return errors.Wrap(err, "corelex: build nfa for dot export")
	}
	return writeNFADot(w, g)
}

func (m *Machine) WriteDFADot(w io.Writer) error {
	return writeDFADot(w, m.m)
}
