package nfa

import (
	"github.com/corelex/corelex/ast"
	"github.com/pkg/errors"
)

// Build runs Thompson construction over a desugared AST (the {set, cat,
// alt, rep, isec, diff} algebra Desugar produces), decorates edges per
// spec §4.4's action/precondition rules, and eliminates epsilon edges
// before returning. The returned Graph's edges are all byte-consuming;
// boundary actions and eof_actions have already been resolved onto them.
func Build(root *ast.Node) (*Graph, error) {
	b := &builder{g: &Graph{}}
	start, accept, err := b.fragment(root)
	if err != nil {
		return nil, err
	}
	b.g.Start = start
	b.g.Accept = accept
	return b.eliminate()
}

type builder struct {
	g *Graph
}

// fragment builds the NFA fragment for a single desugared node, then
// applies that node's own annotations (final, all, enter, exit, in that
// order) around the structural core. Final is resolved against the core
// alone, since it concerns the fragment's internal last-byte transitions,
// not the enter/exit boundary this same node may also carry.
func (b *builder) fragment(n *ast.Node) (start, accept int, err error) {
	switch n.Tag {
	case ast.TagSet:
		start, accept = b.buildSet(n)
	case ast.TagCat:
		start, accept, err = b.buildCat(n.Children)
	case ast.TagAlt:
		start, accept, err = b.buildAlt(n.Children)
	case ast.TagRep:
		start, accept, err = b.buildRep(n.Children[0])
	case ast.TagIsec:
		start, accept, err = b.buildProduct(n.Children[0], n.Children[1], false)
	case ast.TagDiff:
		start, accept, err = b.buildProduct(n.Children[0], n.Children[1], true)
	default:
		panic("nfa: unreachable tag in fragment: " + n.Tag.String())
	}
	if err != nil {
		return 0, 0, err
	}

	if n.HasAction(ast.EventFinal) {
		if ast.Nullable(n) {
			return 0, 0, errors.Wrapf(ErrFinalIndefinite, "onfinal on nullable %s node", n.Tag)
		}
		b.decorateFinal(start, accept, n.Actions[ast.EventFinal])
	}

	start = b.wrapEnter(n, start)
	accept = b.wrapExit(n, accept)
	return start, accept, nil
}

func (b *builder) buildSet(n *ast.Node) (start, accept int) {
	start = b.g.newNode()
	accept = b.g.newNode()
	b.g.addByteEdge(start, accept, n.Set)
	return start, accept
}

func (b *builder) buildCat(children []*ast.Node) (start, accept int, err error) {
	if len(children) == 0 {
		start = b.g.newNode()
		accept = b.g.newNode()
		b.g.addEpsilon(start, accept)
		return start, accept, nil
	}
	start, accept, err = b.fragment(children[0])
	if err != nil {
		return 0, 0, err
	}
	for _, c := range children[1:] {
		s, e, err := b.fragment(c)
		if err != nil {
			return 0, 0, err
		}
		b.g.addEpsilon(accept, s)
		accept = e
	}
	return start, accept, nil
}

func (b *builder) buildAlt(children []*ast.Node) (start, accept int, err error) {
	start = b.g.newNode()
	accept = b.g.newNode()
	for _, c := range children {
		s, e, err := b.fragment(c)
		if err != nil {
			return 0, 0, err
		}
		b.g.addEpsilon(start, s)
		b.g.addEpsilon(e, accept)
	}
	return start, accept, nil
}

func (b *builder) buildRep(x *ast.Node) (start, accept int, err error) {
	s, e, err := b.fragment(x)
	if err != nil {
		return 0, 0, err
	}
	start = b.g.newNode()
	accept = b.g.newNode()
	b.g.addEpsilon(start, s)
	b.g.addEpsilon(start, accept)
	b.g.addEpsilon(e, start)
	b.g.addEpsilon(e, accept)
	return start, accept, nil
}

// wrapEnter adds an entry proxy edge carrying n's own `all` actions
// (first, per the same-edge ordering rule) followed by its `enter`
// actions, guarded by the conjunction of precond_all and precond_enter.
func (b *builder) wrapEnter(n *ast.Node, start int) int {
	if !n.HasAction(ast.EventAll) && !n.HasAction(ast.EventEnter) && n.PrecondAll == nil && n.PrecondEnter == nil {
		return start
	}
	newStart := b.g.newNode()
	e := b.g.addEpsilon(newStart, start)
	e.Actions = append(append([]string(nil), n.Actions[ast.EventAll]...), n.Actions[ast.EventEnter]...)
	e.Preconds = mergePreconds(precondMap(n.PrecondAll), precondMap(n.PrecondEnter))
	return newStart
}

// wrapExit adds an exit proxy edge carrying n's `exit` actions, reguarded
// by precond_all, so that guard is checked on the way out of the fragment
// as well as on the way in; transitions inside the fragment carry no copy
// of it.
func (b *builder) wrapExit(n *ast.Node, accept int) int {
	if !n.HasAction(ast.EventExit) && n.PrecondAll == nil {
		return accept
	}
	newAccept := b.g.newNode()
	e := b.g.addEpsilon(accept, newAccept)
	e.Actions = append([]string(nil), n.Actions[ast.EventExit]...)
	e.Preconds = mergePreconds(precondMap(n.PrecondAll))
	return newAccept
}

// decorateFinal attaches actions to every concrete edge within [start,
// accept) whose destination can reach accept via epsilon edges alone: the
// fragment's last-byte transitions.
func (b *builder) decorateFinal(start, accept int, actions []string) {
	fragNodes := b.reachable(start)
	for _, u := range fragNodes {
		for _, e := range b.g.Nodes[u].Edges {
			if e.Epsilon {
				continue
			}
			if b.g.EpsilonClosure([]int{e.Dst})[accept] {
				e.FinalActions = append(e.FinalActions, actions...)
			}
		}
	}
}

// reachable returns every node reachable from start via any edge.
func (b *builder) reachable(start int) []int {
	seen := map[int]bool{start: true}
	stack := []int{start}
	var out []int
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, u)
		for _, e := range b.g.Nodes[u].Edges {
			if !seen[e.Dst] {
				seen[e.Dst] = true
				stack = append(stack, e.Dst)
			}
		}
	}
	return out
}

func precondMap(p *ast.Precond) map[string]ast.Polarity {
	if p == nil {
		return nil
	}
	return map[string]ast.Polarity{p.Name: p.Polarity}
}

// mergePreconds unions guard maps; a name repeated with conflicting
// polarity is rare enough in practice that the later map simply wins.
func mergePreconds(maps ...map[string]ast.Polarity) map[string]ast.Polarity {
	var out map[string]ast.Polarity
	for _, m := range maps {
		for k, v := range m {
			if out == nil {
				out = make(map[string]ast.Polarity)
			}
			out[k] = v
		}
	}
	return out
}
