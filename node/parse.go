package node

import (
	"fmt"

	"github.com/jsondb-go/jsondb/internal/jsonscan"
	"github.com/jsondb-go/jsondb/internal/value"
)

// ParseNode parses a JSON object text into a materialized Object node with
// the given key.
func ParseNode(opts Options, key string, jsonText string) (*Node, error) {
	el, err := jsonscan.Parse(jsonText)
	if err != nil {
		return nil, fmt.Errorf("node: parse %q: %w", key, err)
	}
	if el.Kind() != jsonscan.KindObject {
		return nil, fmt.Errorf("%w: ParseNode requires a JSON object, got %s", ErrShapeMismatch, el.Kind())
	}
	n := buildFromElement(opts, el, true)
	n.key = strPtr(key)
	return n, nil
}

// ParseArrayNode parses a JSON array text into a materialized ValueArray or
// ObjectArray node with the given key.
func ParseArrayNode(opts Options, key string, jsonText string) (*Node, error) {
	el, err := jsonscan.Parse(jsonText)
	if err != nil {
		return nil, fmt.Errorf("node: parse %q: %w", key, err)
	}
	if el.Kind() != jsonscan.KindArray {
		return nil, fmt.Errorf("%w: ParseArrayNode requires a JSON array, got %s", ErrShapeMismatch, el.Kind())
	}
	n := buildFromElement(opts, el, true)
	n.key = strPtr(key)
	return n, nil
}

// buildFromElement converts a parsed JSON element into a Node tree. top is
// true only for the element that a caller explicitly asked to be parsed
// (ParseNode/ParseArrayNode, or the root document): that level always
// materializes eagerly. Nested object/array members become Lazy nodes
// instead when opts.EnableLazy is set (spec §4.B).
func buildFromElement(opts Options, el *jsonscan.Element, top bool) *Node {
	switch el.Kind() {
	case jsonscan.KindNull:
		return &Node{kind: KindScalar, scalar: value.Null()}
	case jsonscan.KindBool:
		return &Node{kind: KindScalar, scalar: value.BoolValue(el.Bool())}
	case jsonscan.KindInt64:
		return &Node{kind: KindScalar, scalar: value.Int64Value(el.Int64())}
	case jsonscan.KindDouble:
		return &Node{kind: KindScalar, scalar: value.Float64Value(el.Double())}
	case jsonscan.KindString:
		return &Node{kind: KindScalar, scalar: value.StringValue(el.Str())}
	case jsonscan.KindObject:
		if !top && opts.EnableLazy {
			return &Node{kind: KindLazyObject, lazy: el}
		}
		return buildObject(opts, el)
	case jsonscan.KindArray:
		if !top && opts.EnableLazy {
			return &Node{kind: KindLazyArray, lazy: el}
		}
		return buildArray(opts, el)
	default:
		return &Node{kind: KindScalar, scalar: value.Null()}
	}
}

func buildObject(opts Options, el *jsonscan.Element) *Node {
	n := &Node{kind: KindObject}
	for _, m := range el.Members() {
		child := buildFromElement(opts, m.Value, false)
		child.key = strPtr(m.Key)
		child.parent = n
		insertObjectChild(opts, n, child)
	}
	return n
}

// insertObjectChild inserts child into parent's children, keeping ascending
// key order when opts.Sort is set and replacing an existing same-keyed
// child (spec §3 invariant 2: duplicate keys disallowed; insertion on a
// duplicate replaces).
func insertObjectChild(opts Options, parent *Node, child *Node) {
	if opts.Sort {
		i := 0
		for i < len(parent.children) && parent.children[i].Key() < child.Key() {
			i++
		}
		if i < len(parent.children) && parent.children[i].Key() == child.Key() {
			child.parent = parent
			parent.children[i] = child
			return
		}
		parent.children = append(parent.children, nil)
		copy(parent.children[i+1:], parent.children[i:])
		parent.children[i] = child
		return
	}
	for i, c := range parent.children {
		if c.Key() == child.Key() {
			parent.children[i] = child
			return
		}
	}
	parent.children = append(parent.children, child)
}

func buildArray(opts Options, el *jsonscan.Element) *Node {
	items := el.Items()
	if len(items) == 0 {
		return &Node{kind: KindValueArray}
	}
	if items[0].Kind() == jsonscan.KindObject {
		n := &Node{kind: KindObjectArray}
		for _, item := range items {
			if item.Kind() != jsonscan.KindObject {
				// Heterogeneous array mixing objects and scalars: keep the
				// first-established shape, skip the outlier. The spec does
				// not define array-of-mixed-kind semantics; this mirrors
				// ValueArray's "resists heterogeneous inserts" policy.
				continue
			}
			child := buildFromElement(opts, item, false)
			child.parent = n
			n.arrayItems = append(n.arrayItems, child)
		}
		return n
	}

	n := &Node{kind: KindValueArray}
	for _, item := range items {
		scalarNode := buildFromElement(opts, item, false)
		if scalarNode.kind != KindScalar {
			continue
		}
		if !n.arrayHasElem {
			n.arrayElemTag = scalarNode.scalar.Tag()
			n.arrayHasElem = true
		} else if scalarNode.scalar.Tag() != n.arrayElemTag {
			continue
		}
		n.arrayValues = append(n.arrayValues, scalarNode.scalar)
	}
	return n
}
