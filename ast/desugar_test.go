package ast

import (
	"testing"

	"github.com/corelex/corelex/byteset"
	"github.com/stretchr/testify/require"
)

func TestDesugarRep1ToCatOfXAndRepX(t *testing.T) {
	n, err := Parse("a+")
	require.NoError(t, err)
	d := Desugar(n)
	require.Equal(t, TagCat, d.Tag)
	require.Equal(t, TagSet, d.Children[0].Tag)
	require.Equal(t, TagRep, d.Children[1].Tag)
}

func TestDesugarOptToAltOfXAndEmptyCat(t *testing.T) {
	n, err := Parse("a?")
	require.NoError(t, err)
	d := Desugar(n)
	require.Equal(t, TagAlt, d.Tag)
	require.Equal(t, TagCat, d.Children[1].Tag)
	require.Empty(t, d.Children[1].Children)
}

func TestDesugarNegToDiffOfAnyStarAndX(t *testing.T) {
	n, err := Parse("a")
	require.NoError(t, err)
	d := Desugar(Neg(n))
	require.Equal(t, TagDiff, d.Tag)
	require.Equal(t, TagRep, d.Children[0].Tag)
	require.True(t, d.Children[0].Children[0].Set.Equal(byteset.Full()))
}

func TestDesugarClassUnionsMembers(t *testing.T) {
	n, err := Parse("[a-cx]")
	require.NoError(t, err)
	d := Desugar(n)
	require.Equal(t, TagSet, d.Tag)
	require.True(t, d.Set.Contains('a'))
	require.True(t, d.Set.Contains('b'))
	require.True(t, d.Set.Contains('c'))
	require.True(t, d.Set.Contains('x'))
	require.False(t, d.Set.Contains('d'))
}

func TestDesugarNegatedClassComplements(t *testing.T) {
	n, err := Parse("[^a]")
	require.NoError(t, err)
	d := Desugar(n)
	require.False(t, d.Set.Contains('a'))
	require.True(t, d.Set.Contains('b'))
}

func TestDesugarCarriesActionsAndPreconditionsOntoRewrittenRoot(t *testing.T) {
	n, err := Parse("a")
	require.NoError(t, err)
	annotated := SetPrecond(OnEnter(n, "hit"), "flag", WhenEnter, PolarityTrue)
	d := Desugar(annotated)
	require.Equal(t, []string{"hit"}, d.Actions[EventEnter])
	require.NotNil(t, d.PrecondEnter)
	require.Equal(t, "flag", d.PrecondEnter.Name)
}

func TestDesugarIsNonMutatingOnRepeatedCalls(t *testing.T) {
	n, err := Parse("a+")
	require.NoError(t, err)
	first := Desugar(n)
	second := Desugar(n)
	require.Equal(t, first.Tag, second.Tag)
	require.NotSame(t, first, second)
}
