package node

import "github.com/jsondb-go/jsondb/internal/value"

// Clone deep-copies the subtree rooted at n, except for Lazy nodes, whose
// unparsed element is shared rather than re-parsed (spec §9 design notes).
// The clone's parent link is always nil: Clone detaches, it never re-parents
// into the source tree.
func (n *Node) Clone() *Node {
	c := n.cloneNode()
	c.parent = nil
	return c
}

func (n *Node) cloneNode() *Node {
	c := &Node{
		kind:         n.kind,
		scalar:       n.scalar,
		arrayElemTag: n.arrayElemTag,
		arrayHasElem: n.arrayHasElem,
		lazy:         n.lazy,
	}
	if n.key != nil {
		k := *n.key
		c.key = &k
	}
	if n.arrayValues != nil {
		c.arrayValues = append([]value.Scalar(nil), n.arrayValues...)
	}
	if n.children != nil {
		c.children = make([]*Node, len(n.children))
		for i, ch := range n.children {
			cc := ch.cloneNode()
			cc.parent = c
			c.children[i] = cc
		}
	}
	if n.arrayItems != nil {
		c.arrayItems = make([]*Node, len(n.arrayItems))
		for i, it := range n.arrayItems {
			cc := it.cloneNode()
			cc.parent = c
			c.arrayItems[i] = cc
		}
	}
	return c
}
