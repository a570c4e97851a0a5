package corelex

import (
	"fmt"
	"io"
	"sort"

	"github.com/corelex/corelex/ast"
	"github.com/corelex/corelex/dfa"
	"github.com/corelex/corelex/nfa"
)

func guardExprDot(g map[string]ast.Polarity) string {
	if len(g) == 0 {
		return ""
	}
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for _, k := range keys {
		switch g[k] {
		case ast.PolarityTrue:
			s += "+" + k + " "
		case ast.PolarityFalse:
			s += "-" + k + " "
		}
	}
	return s
}

// writeNFADot and writeDFADot render a Graphviz DOT digraph, grounded on
// the teacher's writeDotGraph/dotGraphBuilder: accept nodes filled green,
// one edge per transition labeled with its byte set.
func writeNFADot(w io.Writer, g *nfa.Graph) error {
	if _, err := fmt.Fprintf(w, "digraph NFA {\n"); err != nil {
		return err
	}
	for i, n := range g.Nodes {
		if n.Accept {
			if _, err := fmt.Fprintf(w, "  %d[style=filled,color=green];\n", i); err != nil {
				return err
			}
		}
		for _, e := range n.Edges {
			label := "epsilon"
			if !e.Epsilon {
				label = e.Label.String()
			}
			if _, err := fmt.Fprintf(w, "  %d -> %d[label=%q];\n", i, e.Dst, label); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

func writeDFADot(w io.Writer, m *dfa.Machine) error {
	if _, err := fmt.Fprintf(w, "digraph DFA {\n"); err != nil {
		return err
	}
	for id := 1; id < len(m.States); id++ {
		st := m.States[id]
		if st.Accept {
			if _, err := fmt.Fprintf(w, "  %d[style=filled,color=green];\n", id); err != nil {
				return err
			}
		}
		for _, grp := range dfaGroupEdgesByDest(st) {
			if _, err := fmt.Fprintf(w, "  %d -> %d[label=%q];\n", id, grp.dst, grp.label); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

type dfaEdgeLabel struct {
	dst   int
	label string
}

// dfaGroupEdgesByDest collapses the 256 per-byte alternative lists into
// one labeled edge per (destination, guard) pair for a legible graph;
// states with overlapping guarded alternatives on the same byte produce
// one edge per alternative.
func dfaGroupEdgesByDest(st *dfa.State) []dfaEdgeLabel {
	type key struct {
		dst   int
		guard string
	}
	bytesOf := map[key][]byte{}
	var order []key
	for b := 0; b < 256; b++ {
		for _, alt := range st.Trans[b] {
			k := key{dst: alt.Dst, guard: guardExprDot(alt.Guard)}
			if _, ok := bytesOf[k]; !ok {
				order = append(order, k)
			}
			bytesOf[k] = append(bytesOf[k], byte(b))
		}
	}
	out := make([]dfaEdgeLabel, 0, len(order))
	for _, k := range order {
		label := fmt.Sprintf("%v", bytesOf[k])
		if k.guard != "" {
			label += " " + k.guard
		}
		out = append(out, dfaEdgeLabel{dst: k.dst, label: label})
	}
	return out
}
