// Package node implements the document store's tagged node tree: a typed,
// parent-linked tree that mixes scalars, ordered objects, homogeneous value
// arrays, object arrays, and lazily-materialized subtrees behind one
// polymorphic Node type, with dotted-path/$N addressing and structural
// mutation that preserves the parent/child invariants.
package node

import (
	"fmt"

	"github.com/jsondb-go/jsondb/internal/jsonscan"
	"github.com/jsondb-go/jsondb/internal/value"
)

// Kind identifies which of the six node variants a Node holds. The integer
// values match the snapshot codec's kind-int column (spec §4.F).
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindValueArray
	KindObjectArray
	KindLazyObject
	KindLazyArray
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "Scalar"
	case KindObject:
		return "Object"
	case KindValueArray:
		return "ValueArray"
	case KindObjectArray:
		return "ObjectArray"
	case KindLazyObject:
		return "LazyObject"
	case KindLazyArray:
		return "LazyArray"
	default:
		return "Unknown"
	}
}

// Options carries the per-caller runtime configuration from spec §5: sort,
// binary_search, recursive_mode, plus the value codec's comma/null_sentinel
// settings. It is always passed explicitly, never read from a package
// global, so concurrent callers can run with independent configurations
// over the same tree.
type Options struct {
	Sort          bool
	BinarySearch  bool
	RecursiveMode bool
	EnableLazy    bool
	Value         value.Options
}

// DefaultOptions returns the documented defaults: sorted objects with
// binary search enabled, navigational (non-recursive) addressing, eager
// (non-lazy) materialization.
func DefaultOptions() Options {
	return Options{
		Sort:         true,
		BinarySearch: true,
		Value:        value.DefaultOptions(),
	}
}

// Node is one element of the document tree. The zero Node is not valid;
// use the New* constructors or the package-level parse functions.
type Node struct {
	key    *string
	parent *Node
	kind   Kind

	scalar value.Scalar

	children []*Node // KindObject, kept in ascending key order when Options.Sort

	arrayElemTag value.Tag
	arrayHasElem bool
	arrayValues  []value.Scalar // KindValueArray

	arrayItems []*Node // KindObjectArray, element kind Object or LazyObject

	lazy *jsonscan.Element // KindLazyObject / KindLazyArray
}

// ErrShapeMismatch is returned when an operation requires a node of a
// specific kind (ObjectArray, ValueArray, Object) but finds a different one.
var ErrShapeMismatch = fmt.Errorf("node: shape mismatch")

// ErrUnsupported is returned for operations that have no meaning on a given
// node kind (e.g. add on a Scalar).
var ErrUnsupported = fmt.Errorf("node: unsupported operation")

// Key returns the node's key, or "" if it has none (root, or an
// ObjectArray/ValueArray element).
func (n *Node) Key() string {
	if n == nil || n.key == nil {
		return ""
	}
	return *n.key
}

// HasKey reports whether the node carries a key at all.
func (n *Node) HasKey() bool { return n != nil && n.key != nil }

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the node's parent, or nil at the root.
func (n *Node) Parent() *Node { return n.parent }

// Scalar returns the node's scalar payload. Only meaningful when
// Kind() == KindScalar.
func (n *Node) Scalar() value.Scalar { return n.scalar }

func strPtr(s string) *string { return &s }

// NewScalar constructs a detached Scalar node.
func NewScalar(key string, v value.Scalar) *Node {
	return &Node{key: strPtr(key), kind: KindScalar, scalar: v}
}

// NewObject constructs a detached, empty Object node.
func NewObject(key string) *Node {
	return &Node{key: strPtr(key), kind: KindObject}
}

// newObjectNoKey is used for ObjectArray elements, which have no key of
// their own (they are addressed positionally).
func newObjectNoKey() *Node {
	return &Node{kind: KindObject}
}

// NewValueArray constructs a detached, empty ValueArray node. Its element
// type is established by the first Add call.
func NewValueArray(key string) *Node {
	return &Node{key: strPtr(key), kind: KindValueArray}
}

// NewObjectArray constructs a detached, empty ObjectArray node.
func NewObjectArray(key string) *Node {
	return &Node{key: strPtr(key), kind: KindObjectArray}
}

// NewLazyObject wraps an unparsed JSON object element.
func NewLazyObject(key string, el *jsonscan.Element) *Node {
	return &Node{key: strPtr(key), kind: KindLazyObject, lazy: el}
}

// NewLazyArray wraps an unparsed JSON array element.
func NewLazyArray(key string, el *jsonscan.Element) *Node {
	return &Node{key: strPtr(key), kind: KindLazyArray, lazy: el}
}

// Children returns an Object node's children in their current order. Callers
// must not mutate the returned slice.
func (n *Node) Children() []*Node {
	if n.kind != KindObject {
		return nil
	}
	return n.children
}

// ArrayItems returns an ObjectArray node's elements. Callers must not
// mutate the returned slice.
func (n *Node) ArrayItems() []*Node {
	if n.kind != KindObjectArray {
		return nil
	}
	return n.arrayItems
}

// ArrayValues returns a ValueArray node's scalar elements. Callers must not
// mutate the returned slice.
func (n *Node) ArrayValues() []value.Scalar {
	if n.kind != KindValueArray {
		return nil
	}
	return n.arrayValues
}

// ArrayElementTag returns the ValueArray's established element tag, and
// whether one has been established yet (false before the first insertion).
func (n *Node) ArrayElementTag() (value.Tag, bool) {
	return n.arrayElemTag, n.arrayHasElem
}

// materialize replaces a Lazy node with its fully materialized form the
// first time it is structurally accessed (spec §4.B "lazy materialization").
// It returns the node to continue operating on: itself if already
// materialized, or the freshly built replacement otherwise. The parent's
// payload is updated in place so that subsequent navigation sees the
// materialized node directly, per invariant 4.
func (n *Node) materialize(opts Options) *Node {
	if n.kind != KindLazyObject && n.kind != KindLazyArray {
		return n
	}
	built := buildFromElement(opts, n.lazy, true)
	key, parent := n.key, n.parent
	*n = *built
	n.key = key
	n.parent = parent
	n.fixupChildParents()
	return n
}

// fixupChildParents repoints the parent pointers of an Object/ObjectArray
// node's immediate children after materialize overwrites *n in place
// (the children were built pointing at `built`, a different Go value).
func (n *Node) fixupChildParents() {
	for _, c := range n.children {
		c.parent = n
	}
	for _, c := range n.arrayItems {
		c.parent = n
	}
}

// replaceChildPointer swaps old for new at whatever position old currently
// occupies in p's payload. Used by SetJSON; materialize instead overwrites
// the lazy node in place.
func (p *Node) replaceChildPointer(old, newNode *Node) {
	switch p.kind {
	case KindObject:
		for i, c := range p.children {
			if c == old {
				p.children[i] = newNode
				return
			}
		}
	case KindObjectArray:
		for i, c := range p.arrayItems {
			if c == old {
				p.arrayItems[i] = newNode
				return
			}
		}
	}
}
