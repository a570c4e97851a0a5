// Package byteset implements an immutable set over the 256-value byte
// alphabet, stored as sorted disjoint ranges.
package byteset

import "fmt"

// Range is an inclusive [Lo, Hi] pair of byte values.
type Range struct {
	Lo, Hi byte
}

// Set is an immutable set of bytes. The zero value is the empty set.
// Canonical form is a slice of sorted, disjoint, non-adjacent ranges;
// every constructor and operation below returns a Set in canonical form
// regardless of the order or overlap of its inputs.
type Set struct {
	ranges []Range
}

// Empty returns the empty set.
func Empty() Set { return Set{} }

// Full returns the set containing every byte 0x00..=0xff.
func Full() Set { return FromRange(0x00, 0xff) }

// FromByte returns the singleton set {b}.
func FromByte(b byte) Set { return Set{ranges: []Range{{b, b}}} }

// FromRange returns the set of bytes in [lo, hi]. If lo > hi the result is
// empty.
func FromRange(lo, hi byte) Set {
	if lo > hi {
		return Set{}
	}
	return Set{ranges: []Range{{lo, hi}}}
}

// FromBytes returns the set containing exactly the given bytes.
func FromBytes(bs ...byte) Set {
	var s Set
	for _, b := range bs {
		s = s.Union(FromByte(b))
	}
	return s
}

// IsEmpty reports whether the set has no members.
func (s Set) IsEmpty() bool { return len(s.ranges) == 0 }

// Contains reports whether b is a member of s.
func (s Set) Contains(b byte) bool {
	lo, hi := 0, len(s.ranges)
	for lo < hi {
		mid := (lo + hi) / 2
		r := s.ranges[mid]
		switch {
		case b < r.Lo:
			hi = mid
		case b > r.Hi:
			lo = mid + 1
		default:
			return true
		}
	}
	return false
}

// Min returns the smallest member and true, or (0, false) if empty.
func (s Set) Min() (byte, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.ranges[0].Lo, true
}

// Max returns the largest member and true, or (0, false) if empty.
func (s Set) Max() (byte, bool) {
	if s.IsEmpty() {
		return 0, false
	}
	return s.ranges[len(s.ranges)-1].Hi, true
}

// IterRanges returns the sorted, disjoint, inclusive ranges making up s.
// The returned slice is owned by the caller.
func (s Set) IterRanges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Union returns s ∪ other.
func (s Set) Union(other Set) Set {
	merged := mergeRuns(s.ranges, other.ranges)
	return Set{ranges: coalesce(merged)}
}

// Intersect returns s ∩ other.
func (s Set) Intersect(other Set) Set {
	var out []Range
	i, j := 0, 0
	for i < len(s.ranges) && j < len(other.ranges) {
		a, b := s.ranges[i], other.ranges[j]
		lo := maxByte(a.Lo, b.Lo)
		hi := minByte(a.Hi, b.Hi)
		if lo <= hi {
			out = append(out, Range{lo, hi})
		}
		if a.Hi < b.Hi {
			i++
		} else {
			j++
		}
	}
	return Set{ranges: coalesce(out)}
}

// Difference returns s \ other: members of s that are not in other.
func (s Set) Difference(other Set) Set {
	return s.Intersect(other.Complement())
}

// Complement returns the set of bytes not in s, relative to the full
// 0x00..=0xff alphabet.
func (s Set) Complement() Set {
	var out []Range
	next := 0
	for _, r := range s.ranges {
		if int(r.Lo) > next {
			out = append(out, Range{byte(next), r.Lo - 1})
		}
		next = int(r.Hi) + 1
	}
	if next <= 0xff {
		out = append(out, Range{byte(next), 0xff})
	}
	return Set{ranges: out}
}

// Equal reports set equality: same canonical ranges.
func (s Set) Equal(other Set) bool {
	if len(s.ranges) != len(other.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r != other.ranges[i] {
			return false
		}
	}
	return true
}

func (s Set) String() string {
	if s.IsEmpty() {
		return "{}"
	}
	out := "{"
	for i, r := range s.ranges {
		if i > 0 {
			out += ","
		}
		if r.Lo == r.Hi {
			out += fmt.Sprintf("%02x", r.Lo)
		} else {
			out += fmt.Sprintf("%02x-%02x", r.Lo, r.Hi)
		}
	}
	return out + "}"
}

func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

func minByte(a, b byte) byte {
	if a < b {
		return a
	}
	return b
}

// mergeRuns interleaves two already-sorted, already-disjoint range slices
// into one sorted (possibly overlapping/adjacent) slice, ready for
// coalesce.
func mergeRuns(a, b []Range) []Range {
	out := make([]Range, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].Lo <= b[j].Lo {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// coalesce merges overlapping or adjacent ranges in a sorted-by-Lo slice
// into the canonical disjoint form.
func coalesce(rs []Range) []Range {
	if len(rs) == 0 {
		return nil
	}
	out := make([]Range, 0, len(rs))
	cur := rs[0]
	for _, r := range rs[1:] {
		if int(r.Lo) <= int(cur.Hi)+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = r
	}
	out = append(out, cur)
	return out
}
