package byteset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalFormIndependentOfInputOrder(t *testing.T) {
	a := FromBytes(5, 1, 3, 2, 4)
	b := FromRange(1, 5)
	require.True(t, a.Equal(b))
	require.Equal(t, []Range{{1, 5}}, a.IterRanges())
}

func TestUnionCommutative(t *testing.T) {
	a := FromRange(0, 10)
	b := FromRange(5, 20)
	require.True(t, a.Union(b).Equal(b.Union(a)))
	require.Equal(t, []Range{{0, 20}}, a.Union(b).IterRanges())
}

func TestIntersectDistributesOverUnion(t *testing.T) {
	a := FromRange(0, 50)
	b := FromRange(10, 30)
	c := FromRange(40, 60)
	lhs := a.Intersect(b.Union(c))
	rhs := a.Intersect(b).Union(a.Intersect(c))
	require.True(t, lhs.Equal(rhs))
}

func TestComplementInvolution(t *testing.T) {
	a := FromRange(10, 20).Union(FromByte(200))
	require.True(t, a.Complement().Complement().Equal(a))
}

func TestComplementOfUniverse(t *testing.T) {
	require.True(t, Full().Complement().IsEmpty())
	require.True(t, Empty().Complement().Equal(Full()))
}

func TestDifferenceFromEmptyIsEmpty(t *testing.T) {
	require.True(t, Empty().Difference(FromRange(0, 255)).IsEmpty())
}

func TestDifference(t *testing.T) {
	a := FromRange(0, 10)
	b := FromRange(5, 7)
	got := a.Difference(b)
	require.Equal(t, []Range{{0, 4}, {8, 10}}, got.IterRanges())
}

func TestContains(t *testing.T) {
	s := FromRange(10, 20).Union(FromRange(100, 110))
	require.True(t, s.Contains(10))
	require.True(t, s.Contains(15))
	require.True(t, s.Contains(20))
	require.False(t, s.Contains(21))
	require.True(t, s.Contains(105))
	require.False(t, s.Contains(50))
}

func TestMinMax(t *testing.T) {
	s := FromRange(10, 20).Union(FromRange(100, 110))
	lo, ok := s.Min()
	require.True(t, ok)
	require.Equal(t, byte(10), lo)
	hi, ok := s.Max()
	require.True(t, ok)
	require.Equal(t, byte(110), hi)

	_, ok = Empty().Min()
	require.False(t, ok)
}

func TestAdjacentRangesCoalesce(t *testing.T) {
	s := FromRange(0, 9).Union(FromRange(10, 19))
	require.Equal(t, []Range{{0, 19}}, s.IterRanges())
}

func TestOverlappingUnionBreaksIntoMinimalRanges(t *testing.T) {
	s := FromRange(0, 10).Union(FromRange(5, 15)).Union(FromRange(20, 25))
	require.Equal(t, []Range{{0, 15}, {20, 25}}, s.IterRanges())
}
