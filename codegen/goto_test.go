package codegen

import (
	"testing"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
	"github.com/stretchr/testify/require"
)

func TestGenGotoExecCompilesPreconditions(t *testing.T) {
	leaf := ast.SetPrecond(ast.SetNode(byteset.FromByte('a')), "flag", ast.WhenEnter, ast.PolarityTrue)
	n, err := ast.Parse("b")
	require.NoError(t, err)
	m := buildMachine(t, ast.Alt(leaf, ast.Desugar(n)))

	ctx := NewContext(WithGenerator(GeneratorGoto))
	src, err := genGotoExec(ctx, m, map[string]string{})
	require.NoError(t, err)
	require.Contains(t, src, `precond("flag")`)
}

func TestGenGotoExecDeclaresByteVariableOnce(t *testing.T) {
	n, err := ast.Parse("ab|ac")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(n))

	ctx := NewContext(WithGenerator(GeneratorGoto))
	src, err := genGotoExec(ctx, m, map[string]string{})
	require.NoError(t, err)
	require.Equal(t, 1, countOccurrences(src, "var b byte"))
}

func TestGenGotoExecEOFBranchAlwaysSetsCSZeroAfterAccept(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	annotated := ast.OnFinal(n, "done")
	m := buildMachine(t, ast.Desugar(annotated))

	ctx := NewContext(WithGenerator(GeneratorGoto))
	src, err := genGotoExec(ctx, m, map[string]string{"done": "ok = true"})
	require.NoError(t, err)
	require.Contains(t, src, "ok = true")
	require.Contains(t, src, "cs = 0")
	require.Contains(t, src, "default:")
	require.Contains(t, src, "cs = -cs")
}

func TestGenGotoExecEscapeUsesDestinationState(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	annotated := ast.OnAll(n, "esc")
	m := buildMachine(t, ast.Desugar(annotated))

	ctx := NewContext(WithGenerator(GeneratorGoto))
	src, err := genGotoExec(ctx, m, map[string]string{"esc": "escape()"})
	require.NoError(t, err)
	// escape must jump to a label the generator actually emits, not a bare
	// "exit" that no cg_case/cg_advance block defines.
	require.Contains(t, src, "goto cg_exit")
	require.Contains(t, src, "cg_exit:")
	// the action runs on the edge into state 2, so escape records state 2.
	require.Contains(t, src, "cs = 2; p++; goto cg_exit")
}

func TestGenGotoExecRejectsWhenAllAlternativesInAGroupAreGuardedFalse(t *testing.T) {
	// S6: a byte whose only edge is precondition-guarded must be rejected,
	// not fall through to the next state's case block, when the guard is
	// false at runtime.
	leaf := ast.SetPrecond(ast.SetNode(byteset.FromByte('a')), "P", ast.WhenEnter, ast.PolarityTrue)
	bNode, err := ast.Parse("b")
	require.NoError(t, err)
	m := buildMachine(t, ast.Alt(leaf, ast.Desugar(bNode)))

	ctx := NewContext(WithGenerator(GeneratorGoto))
	src, err := genGotoExec(ctx, m, map[string]string{})
	require.NoError(t, err)

	// One rejection site per edge group (guard exhausted) plus one for the
	// byte-matches-no-group case: at least two distinct "cs = -1" sites for
	// state 1, not just a single catch-all after the whole if/else-if chain.
	require.GreaterOrEqual(t, countOccurrences(src, "cs = -1"), 2)
	require.Contains(t, src, `precond("P")`)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
			i += len(sub) - 1
		}
	}
	return count
}
