package codegen

import (
	"strings"
	"testing"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
	"github.com/corelex/corelex/dfa"
	"github.com/corelex/corelex/nfa"
	"github.com/stretchr/testify/require"
)

func buildMachine(t *testing.T, n *ast.Node) *dfa.Machine {
	t.Helper()
	g, err := nfa.Build(n)
	require.NoError(t, err)
	m, err := dfa.Build(g)
	require.NoError(t, err)
	return m
}

func TestGenTableExecRejectsPreconditions(t *testing.T) {
	leaf := ast.SetPrecond(ast.SetNode(byteset.FromByte('a')), "flag", ast.WhenEnter, ast.PolarityTrue)
	n, err := ast.Parse("b")
	require.NoError(t, err)
	m := buildMachine(t, ast.Alt(leaf, ast.Desugar(n)))

	ctx := NewContext(WithGenerator(GeneratorTable))
	_, err = genTableExec(ctx, m, map[string]string{})
	require.ErrorIs(t, err, ErrPreconditionsNeedGoto)
}

func TestGenTableExecEmitsDistinctDispatchIDsInFirstEncounterOrder(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	annotated := ast.OnAll(n, "seen")
	m := buildMachine(t, ast.Desugar(annotated))

	ctx := NewContext(WithGenerator(GeneratorTable))
	src, err := genTableExec(ctx, m, map[string]string{"seen": "count++"})
	require.NoError(t, err)
	require.Contains(t, src, "if act == 1 {")
	require.Contains(t, src, "count++")
}

func TestGenTableExecEOFAcceptVsNonAccept(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(n))

	ctx := NewContext(WithGenerator(GeneratorTable))
	src, err := genTableExec(ctx, m, map[string]string{})
	require.NoError(t, err)
	require.Contains(t, src, "cgAccept[cs-1]")
	require.True(t, strings.Contains(src, "cs = -cs"), "non-accept EOF branch must negate cs")
	require.Contains(t, src, "cs = 0")
}

func TestGenTableExecByteMismatchBacksUpPosition(t *testing.T) {
	n, err := ast.Parse("a")
	require.NoError(t, err)
	m := buildMachine(t, ast.Desugar(n))

	ctx := NewContext(WithGenerator(GeneratorTable))
	src, err := genTableExec(ctx, m, map[string]string{})
	require.NoError(t, err)
	require.Contains(t, src, "else if cs < 0 {")
	require.Contains(t, src, "p--")
}
