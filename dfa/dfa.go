// Package dfa performs subset construction over an already epsilon-free
// nfa.Graph, producing a deterministic, byte-labeled automaton annotated
// with ordered action lists, precondition guards, and eof_actions, per
// spec §4.5. Preconditions prevent full determinism in the classical
// sense: a byte may dispatch to one of several guarded alternatives,
// resolved at runtime by the host's precondition values, so each
// transition carries a short, priority-ordered alternative list rather
// than a single destination.
package dfa

import (
	"sort"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/nfa"
	"github.com/pkg/errors"
)

// ErrAmbiguousEOF is returned when two NFA accept nodes folded into the
// same DFA state carry equally-guarded but differing eof action lists.
var ErrAmbiguousEOF = errors.New("dfa: ambiguous eof actions in merged state")

// ErrUnreachableAccept flags a validity-rule violation the nfa package
// should already have prevented; present for defensive completeness.
var ErrUnreachableAccept = errors.New("dfa: no reachable accept state")

// Alt is one guarded alternative a byte may dispatch to. A nil Guard
// means "always", and by construction there is at most one such
// alternative per transition.
type Alt struct {
	Guard   map[string]ast.Polarity
	Dst     int
	Actions []string
}

// EOFAlt is one guarded alternative for completing a match at a state
// without consuming another byte.
type EOFAlt struct {
	Guard   map[string]ast.Polarity
	Actions []string
}

// State is one DFA node: up to 256 guarded transition lists plus the
// guarded ways of accepting at this state.
type State struct {
	ID       int
	NFANodes []int
	Trans    [256][]Alt
	Accept   bool
	EOF      []EOFAlt
}

// Machine is a complete deterministic automaton: start state 1, ids
// contiguous and assigned in BFS discovery order (spec §4.5).
type Machine struct {
	States []*State // States[0] is unused; real states start at id 1
	Start  int
}

// Build runs subset construction over g.
func Build(g *nfa.Graph) (*Machine, error) {
	type stateKey string
	seen := map[stateKey]int{}
	var nodeSets [][]int

	keyOf := func(nodes []int) (stateKey, []int) {
		cp := append([]int(nil), nodes...)
		sort.Ints(cp)
		cp = dedupInts(cp)
		b := make([]byte, 0, len(cp)*4)
		for _, n := range cp {
			b = append(b, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		}
		return stateKey(b), cp
	}

	startKey, startNodes := keyOf([]int{g.Start})
	seen[startKey] = 1
	nodeSets = append(nodeSets, startNodes)

	m := &Machine{Start: 1}
	m.States = append(m.States, nil) // id 0 unused

	queue := []int{1}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		nodes := nodeSets[id-1]

		st := &State{ID: id, NFANodes: nodes}

		for bv := 0; bv < 256; bv++ {
			b := byte(bv)
			// Group the edges active on this byte by guard key, unioning
			// destination nodes and concatenating actions in encounter
			// order (depth-first over the state's node set, left-to-right
			// over each node's edge list) per spec §4.5.
			var order []string
			dsts := map[string][]int{}
			acts := map[string][]string{}
			guardOf := map[string]map[string]ast.Polarity{}
			for _, u := range nodes {
				for _, e := range g.Nodes[u].Edges {
					if !e.Label.Contains(b) {
						continue
					}
					gk := precondKey(e.Preconds)
					if _, ok := guardOf[gk]; !ok {
						order = append(order, gk)
						guardOf[gk] = e.Preconds
					}
					dsts[gk] = append(dsts[gk], e.Dst)
					full := append(append([]string(nil), e.Actions...), e.FinalActions...)
					acts[gk] = append(acts[gk], full...)
				}
			}
			for _, gk := range order {
				nextKey, nextNodes := keyOf(dsts[gk])
				nextID, ok := seen[nextKey]
				if !ok {
					nextID = len(nodeSets) + 1
					seen[nextKey] = nextID
					nodeSets = append(nodeSets, nextNodes)
					queue = append(queue, nextID)
				}
				st.Trans[bv] = append(st.Trans[bv], Alt{Guard: guardOf[gk], Dst: nextID, Actions: acts[gk]})
			}
		}

		eof, accept, err := mergeEOF(g, nodes)
		if err != nil {
			return nil, err
		}
		st.Accept = accept
		st.EOF = eof

		for len(m.States) <= id {
			m.States = append(m.States, nil)
		}
		m.States[id] = st
	}

	return m, nil
}

func mergeEOF(g *nfa.Graph, nodes []int) ([]EOFAlt, bool, error) {
	type entry struct {
		guard map[string]ast.Polarity
		acts  []string
	}
	var entries []entry
	for _, u := range nodes {
		if !g.Nodes[u].Accept {
			continue
		}
		for _, p := range g.Nodes[u].EOFPaths {
			entries = append(entries, entry{guard: p.Preconds, acts: p.Actions})
		}
	}
	if len(entries) == 0 {
		return nil, false, nil
	}
	var out []EOFAlt
	for _, e := range entries {
		merged := false
		for i := range out {
			if precondEqual(out[i].Guard, e.guard) {
				if !stringsEqual(out[i].Actions, e.acts) {
					return nil, false, ErrAmbiguousEOF
				}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, EOFAlt{Guard: e.guard, Actions: e.acts})
		}
	}
	return out, true, nil
}

func precondKey(p map[string]ast.Polarity) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for _, k := range keys {
		s += k + ":" + polarityStr(p[k]) + ";"
	}
	return s
}

func polarityStr(p ast.Polarity) string {
	switch p {
	case ast.PolarityTrue:
		return "t"
	case ast.PolarityFalse:
		return "f"
	default:
		return "b"
	}
}

func precondEqual(a, b map[string]ast.Polarity) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if bv, ok := b[k]; !ok || bv != v {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func dedupInts(sorted []int) []int {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
