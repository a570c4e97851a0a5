package ast

import (
	"unicode/utf8"

	"github.com/corelex/corelex/byteset"
)

// Desugar rewrites the full annotated tree down to the small foundational
// algebra {set, cat, alt, rep, isec, diff} via the bottom-up, single-step
// rules of spec §4.3. It never mutates its input: every call returns a
// fresh tree, and annotations on a rewritten source node survive on the
// rewritten root (never on the structural scaffolding a rule introduces).
func Desugar(n *Node) *Node {
	if n == nil {
		return nil
	}

	var result *Node
	switch n.Tag {
	case TagSet:
		result = SetNode(n.Set)
	case TagByte:
		result = SetNode(byteset.FromByte(n.Byte))
	case TagRange:
		result = SetNode(byteset.FromRange(n.Lo, n.Hi))
	case TagClass:
		result = SetNode(classSet(n))
	case TagCClass:
		result = SetNode(classSet(n).Complement())
	case TagChar:
		result = byteCat(appendRuneUTF8(n.Ch))
	case TagStr:
		result = byteCat([]byte(n.Str))
	case TagBytes:
		result = byteCat(n.Bytes)
	case TagCat:
		result = Cat(desugarAll(n.Children)...)
	case TagAlt:
		result = Alt(desugarAll(n.Children)...)
	case TagRep:
		result = Rep(Desugar(n.Children[0]))
	case TagRep1:
		// rep1(x) -> cat(x, rep(x))
		x := Desugar(n.Children[0])
		result = Cat(x, Rep(x))
	case TagOpt:
		// opt(x) -> alt(x, cat())  (empty cat is epsilon)
		x := Desugar(n.Children[0])
		result = Alt(x, Cat())
	case TagIsec:
		result = Isec(Desugar(n.Children[0]), Desugar(n.Children[1]))
	case TagDiff:
		result = Diff(Desugar(n.Children[0]), Desugar(n.Children[1]))
	case TagNeg:
		// neg(x) -> diff(rep(any), x)
		x := Desugar(n.Children[0])
		result = Diff(Rep(SetNode(byteset.Full())), x)
	default:
		panic("ast: unreachable tag in Desugar: " + n.Tag.String())
	}

	carryAnnotations(result, n)
	return result
}

func desugarAll(children []*Node) []*Node {
	out := make([]*Node, len(children))
	for i, c := range children {
		out[i] = Desugar(c)
	}
	return out
}

func carryAnnotations(result, source *Node) {
	if len(source.Actions) > 0 {
		result.Actions = make(map[Event][]string, len(source.Actions))
		for k, v := range source.Actions {
			result.Actions[k] = append([]string(nil), v...)
		}
	}
	result.PrecondEnter = source.PrecondEnter
	result.PrecondAll = source.PrecondAll
}

// classSet computes the union of byte sets denoted by a class's children,
// recursing into nested class/cclass members.
func classSet(n *Node) byteset.Set {
	s := byteset.Empty()
	for _, c := range n.Children {
		switch c.Tag {
		case TagByte:
			s = s.Union(byteset.FromByte(c.Byte))
		case TagRange:
			s = s.Union(byteset.FromRange(c.Lo, c.Hi))
		case TagClass:
			s = s.Union(classSet(c))
		case TagCClass:
			s = s.Union(classSet(c).Complement())
		case TagSet:
			s = s.Union(c.Set)
		default:
			panic("ast: class member with unsupported tag: " + c.Tag.String())
		}
	}
	return s
}

// byteCat builds a cat of singleton sets, one per byte of bs. An empty bs
// degenerates to the epsilon regex (empty cat).
func byteCat(bs []byte) *Node {
	parts := make([]*Node, len(bs))
	for i, b := range bs {
		parts[i] = SetNode(byteset.FromByte(b))
	}
	return Cat(parts...)
}

func appendRuneUTF8(r rune) []byte {
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, r)
	return buf[:n]
}
