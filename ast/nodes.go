// Package ast is the annotated regex abstract syntax tree: the source-level
// algebra {byte, range, char, str, bytes, set, class, cclass, cat, alt, rep,
// rep1, opt, isec, diff, neg} plus event-action and precondition
// annotations (spec §4.2). Desugar (desugar.go) rewrites a tree in this
// package down to the small foundational algebra {set, cat, alt, rep, isec,
// diff} that the NFA builder consumes.
package ast

import "github.com/corelex/corelex/byteset"

// Tag identifies the shape of a Node.
type Tag int

const (
	TagByte Tag = iota
	TagRange
	TagChar
	TagStr
	TagBytes
	TagSet
	TagClass
	TagCClass
	TagCat
	TagAlt
	TagRep
	TagRep1
	TagOpt
	TagIsec
	TagDiff
	TagNeg
)

func (t Tag) String() string {
	switch t {
	case TagByte:
		return "byte"
	case TagRange:
		return "range"
	case TagChar:
		return "char"
	case TagStr:
		return "str"
	case TagBytes:
		return "bytes"
	case TagSet:
		return "set"
	case TagClass:
		return "class"
	case TagCClass:
		return "cclass"
	case TagCat:
		return "cat"
	case TagAlt:
		return "alt"
	case TagRep:
		return "rep"
	case TagRep1:
		return "rep1"
	case TagOpt:
		return "opt"
	case TagIsec:
		return "isec"
	case TagDiff:
		return "diff"
	case TagNeg:
		return "neg"
	default:
		return "unknown"
	}
}

// Event is one of the four points at which actions attach to a regex
// fragment's NFA edges.
type Event int

const (
	// EventEnter decorates every transition INTO the fragment's start node.
	EventEnter Event = iota
	// EventExit decorates every transition OUT of the fragment.
	EventExit
	// EventFinal decorates every byte transition that completes a match of
	// the fragment: one whose destination reaches the fragment's end
	// without consuming further bytes.
	EventFinal
	// EventAll decorates the transition into the fragment, ahead of its
	// enter actions; later transitions within the fragment are not
	// decorated.
	EventAll
)

func (e Event) String() string {
	switch e {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	case EventFinal:
		return "final"
	case EventAll:
		return "all"
	default:
		return "unknown"
	}
}

// Polarity is the value a precondition guard must equal for the guarded
// transition to be traversable.
type Polarity int

const (
	PolarityTrue Polarity = iota
	PolarityFalse
	PolarityBoth
)

// Precond is a named host-supplied boolean guard plus the polarity it must
// hold at traversal time.
type Precond struct {
	Name     string
	Polarity Polarity
}

// Node is a variant type over the extended regex algebra. Nodes are
// immutable once annotation is complete; the annotation functions in
// annotate.go (OnEnter, OnExit, OnFinal, OnAll, SetPrecond) mutate in place but must only be called before the node (or
// a tree containing it) is handed to Desugar.
type Node struct {
	Tag      Tag
	Children []*Node

	Byte  byte        // TagByte
	Lo,Hi byte        // TagRange
	Ch    rune        // TagChar
	Str   string      // TagStr
	Bytes []byte      // TagBytes
	Set   byteset.Set // TagSet; also the rewritten form after desugar

	// Actions is an ordered list of action names per event. Order is
	// preserved exactly as declared.
	Actions map[Event][]string

	PrecondEnter *Precond
	PrecondAll   *Precond
}

func newNode(tag Tag, children ...*Node) *Node {
	return &Node{Tag: tag, Children: children}
}

// Clone returns a shallow structural copy of n (fresh Node, shared leaf
// scalars, independent Actions map), so a copy can be annotated without
// mutating the original.
func (n *Node) Clone() *Node {
	cp := *n
	if n.Actions != nil {
		cp.Actions = make(map[Event][]string, len(n.Actions))
		for k, v := range n.Actions {
			cp.Actions[k] = append([]string(nil), v...)
		}
	}
	return &cp
}

// HasAction reports whether any action is bound to event e.
func (n *Node) HasAction(e Event) bool {
	return len(n.Actions[e]) > 0
}
