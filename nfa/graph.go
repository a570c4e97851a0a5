// Package nfa builds a Thompson-style nondeterministic automaton from a
// desugared regex AST, decorating edges with ordered action lists and
// precondition guards per spec §4.4.
package nfa

import (
	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/byteset"
)

// Edge is a transition out of a Node. An Epsilon edge carries no byte
// label and is eliminated by the time Build returns; Label is only
// meaningful when Epsilon is false.
//
// Actions/Preconds decorate epsilon proxy edges during raw construction
// (enter/exit/all); FinalActions decorates a concrete edge directly, since
// a `final` annotation names actual byte-consuming transitions. On the
// eliminated graph, resolveEdges (see eliminate.go) sets Actions to those
// accumulated along the epsilon prefix and keeps FinalActions as a
// separate field; dfa.Build concatenates the two.
type Edge struct {
	Epsilon      bool
	Label        byteset.Set
	Actions      []string
	Preconds     map[string]ast.Polarity
	FinalActions []string
	Dst          int
}

// EOFPath is one way of completing a match by stopping at a node without
// consuming another byte: the conjoined guard that must hold and the
// ordered exit actions that fire, per spec §4.5's eof_actions.
type EOFPath struct {
	Preconds map[string]ast.Polarity
	Actions  []string
}

// Node is an opaque automaton state, identified by its index in Graph.Nodes.
// Accept/EOFPaths are only populated on the eliminated graph Build returns;
// the raw construction graph leaves them zero.
type Node struct {
	Edges    []*Edge
	Accept   bool
	EOFPaths []EOFPath
}

// Graph is a Thompson-constructed NFA: a directed multigraph with a single
// start node and a single accept node. Epsilon edges are retained on the
// raw construction but Build's public result has already eliminated them
// by pushing actions onto the first concrete transition of each event, as
// required by spec §4.4; see builder.go.
type Graph struct {
	Nodes  []*Node
	Start  int
	Accept int
}

func (g *Graph) newNode() int {
	g.Nodes = append(g.Nodes, &Node{})
	return len(g.Nodes) - 1
}

func (g *Graph) addEdge(src int, e *Edge) {
	g.Nodes[src].Edges = append(g.Nodes[src].Edges, e)
}

func (g *Graph) addEpsilon(src, dst int) *Edge {
	e := &Edge{Epsilon: true, Dst: dst}
	g.addEdge(src, e)
	return e
}

func (g *Graph) addByteEdge(src, dst int, label byteset.Set) *Edge {
	e := &Edge{Label: label, Dst: dst}
	g.addEdge(src, e)
	return e
}

// EpsilonClosure returns the set of node indices reachable from any node in
// `from` via zero or more epsilon edges, `from` included.
func (g *Graph) EpsilonClosure(from []int) map[int]bool {
	closure := make(map[int]bool, len(from))
	stack := append([]int(nil), from...)
	for _, i := range from {
		closure[i] = true
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, e := range g.Nodes[i].Edges {
			if e.Epsilon && !closure[e.Dst] {
				closure[e.Dst] = true
				stack = append(stack, e.Dst)
			}
		}
	}
	return closure
}
