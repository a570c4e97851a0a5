package ast

import "github.com/corelex/corelex/byteset"

// ByteNode matches exactly the byte b.
func ByteNode(b byte) *Node { return &Node{Tag: TagByte, Byte: b} }

// RangeNode matches any byte in [lo, hi].
func RangeNode(lo, hi byte) *Node { return &Node{Tag: TagRange, Lo: lo, Hi: hi} }

// CharNode matches the UTF-8 byte sequence of a single rune.
func CharNode(r rune) *Node { return &Node{Tag: TagChar, Ch: r} }

// StrNode matches the UTF-8 byte sequence of s, one byte at a time.
func StrNode(s string) *Node { return &Node{Tag: TagStr, Str: s} }

// BytesNode matches the given raw byte sequence exactly.
func BytesNode(bs []byte) *Node {
	return &Node{Tag: TagBytes, Bytes: append([]byte(nil), bs...)}
}

// SetNode matches any single byte in s.
func SetNode(s byteset.Set) *Node { return &Node{Tag: TagSet, Set: s} }

// ClassNode matches any byte accepted by one of items (each a byte, range,
// or nested class).
func ClassNode(items ...*Node) *Node { return newNode(TagClass, items...) }

// CClassNode matches any byte NOT accepted by any of items.
func CClassNode(items ...*Node) *Node { return newNode(TagCClass, items...) }

// Cat matches the concatenation of parts, in order.
func Cat(parts ...*Node) *Node { return newNode(TagCat, parts...) }

// Alt matches any one of parts.
func Alt(parts ...*Node) *Node { return newNode(TagAlt, parts...) }

// Rep matches zero or more repetitions of x.
func Rep(x *Node) *Node { return newNode(TagRep, x) }

// Rep1 matches one or more repetitions of x.
func Rep1(x *Node) *Node { return newNode(TagRep1, x) }

// Opt matches zero or one occurrence of x.
func Opt(x *Node) *Node { return newNode(TagOpt, x) }

// Isec matches the language intersection of a and b.
func Isec(a, b *Node) *Node { return newNode(TagIsec, a, b) }

// Diff matches the language difference a \ b.
func Diff(a, b *Node) *Node { return newNode(TagDiff, a, b) }

// Neg matches the complement of x relative to (any byte)*.
func Neg(x *Node) *Node { return newNode(TagNeg, x) }
