package ast

// Nullable reports whether n (already desugared to the foundational
// algebra) matches the empty byte string. It is the decidable stand-in
// for spec §4.5's "definite last byte" check: a `final` annotation on a
// nullable node is rejected, since the empty match has no last byte.
func Nullable(n *Node) bool {
	switch n.Tag {
	case TagSet:
		return false
	case TagCat:
		for _, c := range n.Children {
			if !Nullable(c) {
				return false
			}
		}
		return true
	case TagAlt:
		for _, c := range n.Children {
			if Nullable(c) {
				return true
			}
		}
		return false
	case TagRep:
		return true
	case TagIsec:
		return Nullable(n.Children[0]) && Nullable(n.Children[1])
	case TagDiff:
		return Nullable(n.Children[0]) && !Nullable(n.Children[1])
	default:
		panic("ast: Nullable called on non-desugared node: " + n.Tag.String())
	}
}
