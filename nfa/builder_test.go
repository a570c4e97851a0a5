package nfa

import (
	"testing"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
	"github.com/stretchr/testify/require"
)

// walk runs bs through g starting at g.Start, returning the actions fired
// along the way and whether the string was accepted at EOF. It fails the
// test on a dead end (no edge for a byte) so tests fail loudly rather than
// silently.
func walk(t *testing.T, g *Graph, bs []byte) (actions []string, accepted bool) {
	t.Helper()
	cur := g.Start
	for _, b := range bs {
		n := g.Nodes[cur]
		next := -1
		for _, e := range n.Edges {
			if e.Label.Contains(b) {
				actions = append(actions, e.Actions...)
				actions = append(actions, e.FinalActions...)
				next = e.Dst
				break
			}
		}
		require.NotEqual(t, -1, next, "no transition for byte %x from node %d", b, cur)
		cur = next
	}
	n := g.Nodes[cur]
	if n.Accept && len(n.EOFPaths) > 0 {
		actions = append(actions, n.EOFPaths[0].Actions...)
		accepted = true
	}
	return actions, accepted
}

func desugarParse(t *testing.T, pattern string) *ast.Node {
	t.Helper()
	n, err := ast.Parse(pattern)
	require.NoError(t, err)
	return ast.Desugar(n)
}

func TestBuildSingleByte(t *testing.T) {
	n := ast.SetNode(byteset.FromByte('a'))
	g, err := Build(n)
	require.NoError(t, err)
	_, accepted := walk(t, g, []byte("a"))
	require.True(t, accepted)
}

func TestBuildConcatenationFromPattern(t *testing.T) {
	n := desugarParse(t, "abc")
	g, err := Build(n)
	require.NoError(t, err)
	_, accepted := walk(t, g, []byte("abc"))
	require.True(t, accepted)
}

func TestBuildAlternationFromPattern(t *testing.T) {
	n := desugarParse(t, "cat|dog")
	g, err := Build(n)
	require.NoError(t, err)
	_, acceptedCat := walk(t, g, []byte("cat"))
	require.True(t, acceptedCat)
	_, acceptedDog := walk(t, g, []byte("dog"))
	require.True(t, acceptedDog)
}

func TestBuildRepetitionMatchesZeroAndMany(t *testing.T) {
	n := desugarParse(t, "a*")
	g, err := Build(n)
	require.NoError(t, err)
	_, zero := walk(t, g, []byte(""))
	require.True(t, zero)
	_, many := walk(t, g, []byte("aaaa"))
	require.True(t, many)
}

func TestEnterExitOrderingIsInsideOut(t *testing.T) {
	// cat(onexit(a, "exitA"), onenter(b, "enterB")): at the A/B boundary,
	// exit of the inner fragment must fire before enter of the next one.
	a := ast.OnExit(ast.SetNode(byteset.FromByte('a')), "exitA")
	b := ast.OnEnter(ast.SetNode(byteset.FromByte('b')), "enterB")
	n := ast.Cat(a, b)
	g, err := Build(n)
	require.NoError(t, err)
	actions, accepted := walk(t, g, []byte("ab"))
	require.True(t, accepted)
	require.Equal(t, []string{"exitA", "enterB"}, actions)
}

func TestAllPrecedesEnterOnSameEdge(t *testing.T) {
	n := ast.OnEnter(ast.OnAll(ast.SetNode(byteset.FromByte('a')), "all1"), "enter1")
	g, err := Build(n)
	require.NoError(t, err)
	actions, accepted := walk(t, g, []byte("a"))
	require.True(t, accepted)
	require.Equal(t, []string{"all1", "enter1"}, actions)
}

func TestFinalActionsFireOnLastByteTransition(t *testing.T) {
	n := ast.OnFinal(ast.Cat(ast.SetNode(byteset.FromByte('a')), ast.SetNode(byteset.FromByte('b'))), "finished")
	g, err := Build(n)
	require.NoError(t, err)
	actions, accepted := walk(t, g, []byte("ab"))
	require.True(t, accepted)
	require.Equal(t, []string{"finished"}, actions)
}

func TestFinalOnNullableRegexIsRejected(t *testing.T) {
	n := ast.OnFinal(ast.Rep(ast.SetNode(byteset.FromByte('a'))), "boom")
	_, err := Build(n)
	require.ErrorIs(t, err, ErrFinalIndefinite)
}

func TestEOFActionFiresOnlyAtStringEnd(t *testing.T) {
	n := ast.OnExit(ast.SetNode(byteset.FromByte('a')), "done")
	g, err := Build(n)
	require.NoError(t, err)
	actions, accepted := walk(t, g, []byte("a"))
	require.True(t, accepted)
	require.Equal(t, []string{"done"}, actions)
}

func TestIntersectionRestrictsToSharedLanguage(t *testing.T) {
	// (a|b)* isec (a)* intersected should accept only strings of a's.
	ab := ast.Rep(ast.Alt(ast.SetNode(byteset.FromByte('a')), ast.SetNode(byteset.FromByte('b'))))
	aOnly := ast.Rep(ast.SetNode(byteset.FromByte('a')))
	n := ast.Isec(ab, aOnly)
	g, err := Build(n)
	require.NoError(t, err)

	_, acceptedAAA := walk(t, g, []byte("aaa"))
	require.True(t, acceptedAAA)

	cur := g.Start
	blocked := false
	for _, bch := range []byte("ab") {
		node := g.Nodes[cur]
		next := -1
		for _, e := range node.Edges {
			if e.Label.Contains(bch) {
				next = e.Dst
				break
			}
		}
		if next == -1 {
			blocked = true
			break
		}
		cur = next
	}
	require.True(t, blocked, "intersection must reject a string containing 'b'")
}

func TestDifferenceExcludesSubtractedLanguage(t *testing.T) {
	// (a|b) diff (b) must accept "a" but not "b".
	ab := ast.Alt(ast.SetNode(byteset.FromByte('a')), ast.SetNode(byteset.FromByte('b')))
	justB := ast.SetNode(byteset.FromByte('b'))
	n := ast.Diff(ab, justB)
	g, err := Build(n)
	require.NoError(t, err)

	_, acceptedA := walk(t, g, []byte("a"))
	require.True(t, acceptedA)

	_, acceptedB := walk(t, g, []byte("b"))
	require.False(t, acceptedB, "diff must exclude the subtracted byte's language")
}
