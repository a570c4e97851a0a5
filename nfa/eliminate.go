package nfa

import (
	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
)

// eliminate walks the raw, epsilon-bearing construction graph and produces
// a new graph whose edges are all byte-consuming, with each edge's
// Actions/Preconds the concatenation/conjunction accumulated along the
// epsilon prefix that led to it (spec §3's "epsilon edges are not
// retained after construction"). It also precomputes, per node, the set
// of eof_actions reachable by stopping there (spec §4.5).
func (b *builder) eliminate() (*Graph, error) {
	raw := b.g
	out := &Graph{Nodes: make([]*Node, len(raw.Nodes)), Start: raw.Start, Accept: raw.Accept}
	for i := range out.Nodes {
		out.Nodes[i] = &Node{}
	}

	for u := range raw.Nodes {
		resolved, err := resolveEdges(raw, u, nil, nil, map[int]bool{})
		if err != nil {
			return nil, err
		}
		for _, r := range resolved {
			out.Nodes[u].Edges = append(out.Nodes[u].Edges, &Edge{
				Label:        r.Set,
				Actions:      r.Actions,
				Preconds:     r.Preconds,
				FinalActions: r.FinalActions,
				Dst:          r.Dst,
			})
		}

		paths, err := resolveEOF(raw, u, raw.Accept, nil, nil, map[int]bool{})
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			out.Nodes[u].Accept = true
			out.Nodes[u].EOFPaths = dedupEOFPaths(paths)
			if err := checkEOFAmbiguity(out.Nodes[u].EOFPaths); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// edgeHit is the intermediate form resolveEdges produces, one per concrete
// edge reachable from the node resolveEdges was called on.
type edgeHit struct {
	Dst          int
	Set          byteset.Set
	Actions      []string
	Preconds     map[string]ast.Polarity
	FinalActions []string
}

// resolveEdges performs the epsilon-closure DFS from u, returning one
// entry per concrete edge reachable, with actions/preconds from the
// epsilon prefix folded in. visited guards against the cycle rep's
// loop-back edge introduces; it is path-local (added on entry, removed on
// exit) so a node revisited via a different path is still resolved.
func resolveEdges(g *Graph, u int, actionsSoFar []string, precondsSoFar map[string]ast.Polarity, visited map[int]bool) ([]edgeHit, error) {
	if visited[u] {
		return nil, nil
	}
	visited[u] = true
	defer delete(visited, u)

	var out []edgeHit
	for _, e := range g.Nodes[u].Edges {
		if e.Epsilon {
			sub, err := resolveEdges(g, e.Dst, appendActions(actionsSoFar, e.Actions), mergePreconds(precondsSoFar, e.Preconds), visited)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		out = append(out, edgeHit{
			Dst:          e.Dst,
			Set:          e.Label,
			Actions:      actionsSoFar,
			Preconds:     precondsSoFar,
			FinalActions: append([]string(nil), e.FinalActions...),
		})
	}
	return out, nil
}

// resolveEOF finds every way of reaching target (the NFA's sole accept
// node) from u via epsilon edges alone, recording the guard and action
// sequence accumulated along each path. Concrete edges are not followed:
// reaching target requires stopping, not consuming another byte.
func resolveEOF(g *Graph, u, target int, actionsSoFar []string, precondsSoFar map[string]ast.Polarity, visited map[int]bool) ([]EOFPath, error) {
	if u == target {
		return []EOFPath{{Preconds: precondsSoFar, Actions: actionsSoFar}}, nil
	}
	if visited[u] {
		return nil, nil
	}
	visited[u] = true
	defer delete(visited, u)

	var out []EOFPath
	for _, e := range g.Nodes[u].Edges {
		if !e.Epsilon {
			continue
		}
		sub, err := resolveEOF(g, e.Dst, target, appendActions(actionsSoFar, e.Actions), mergePreconds(precondsSoFar, e.Preconds), visited)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func appendActions(prefix, next []string) []string {
	if len(next) == 0 {
		return prefix
	}
	out := make([]string, 0, len(prefix)+len(next))
	out = append(out, prefix...)
	out = append(out, next...)
	return out
}

// dedupEOFPaths removes exact (guard, actions) duplicates, which arise
// naturally when multiple epsilon edges converge on the same point before
// reaching the accept node.
func dedupEOFPaths(paths []EOFPath) []EOFPath {
	var out []EOFPath
	for _, p := range paths {
		dup := false
		for _, q := range out {
			if precondEqual(p.Preconds, q.Preconds) && stringsEqual(p.Actions, q.Actions) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// checkEOFAmbiguity rejects two paths sharing an identical guard but
// differing action sequences: per spec §4.5, at most one such path may be
// active for a given precondition valuation.
func checkEOFAmbiguity(paths []EOFPath) error {
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if precondEqual(paths[i].Preconds, paths[j].Preconds) && !stringsEqual(paths[i].Actions, paths[j].Actions) {
				return ErrAmbiguousEOF
			}
		}
	}
	return nil
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
