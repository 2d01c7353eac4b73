package node

import (
	"fmt"

	"github.com/jsondb-go/jsondb/internal/jsonscan"
	"github.com/jsondb-go/jsondb/internal/value"
)

// getScalar navigates to path and returns the scalar it addresses, whether
// that is a Scalar node or one element of a ValueArray.
func (n *Node) getScalar(opts Options, path string) (value.Scalar, bool) {
	res, ok := n.GetNode(opts, path)
	if !ok {
		return value.Scalar{}, false
	}
	if res.ArrayIdx >= 0 {
		return res.Node.arrayValues[res.ArrayIdx], true
	}
	if res.Node.kind != KindScalar {
		return value.Scalar{}, false
	}
	return res.Node.scalar, true
}

// ScalarAt resolves path and returns the raw scalar found there, without
// casting — used by callers (the predicate package) that need the
// original type and null-ness rather than a coerced Go value.
func (n *Node) ScalarAt(opts Options, path string) (value.Scalar, bool) {
	return n.getScalar(opts, path)
}

// GetString resolves path and casts the result to string (spec §4.B get<T>).
func (n *Node) GetString(opts Options, path string) (string, bool) {
	s, ok := n.getScalar(opts, path)
	if !ok {
		return "", false
	}
	return CastString(s), true
}

// GetInt64 resolves path and casts the result to int64.
func (n *Node) GetInt64(opts Options, path string) (int64, bool) {
	s, ok := n.getScalar(opts, path)
	if !ok {
		return 0, false
	}
	return CastInt64(s), true
}

// GetInt32 resolves path and casts the result to int32.
func (n *Node) GetInt32(opts Options, path string) (int32, bool) {
	s, ok := n.getScalar(opts, path)
	if !ok {
		return 0, false
	}
	return CastInt32(s), true
}

// GetFloat64 resolves path and casts the result to float64.
func (n *Node) GetFloat64(opts Options, path string) (float64, bool) {
	s, ok := n.getScalar(opts, path)
	if !ok {
		return 0, false
	}
	return CastFloat64(s), true
}

// GetBool resolves path and casts the result to bool.
func (n *Node) GetBool(opts Options, path string) (bool, bool) {
	s, ok := n.getScalar(opts, path)
	if !ok {
		return false, false
	}
	return CastBool(s), true
}

// castScalarToTag converts v to the scalar kind denoted by tag, via the
// cross-type conversion table, preserving null.
func castScalarToTag(v value.Scalar, tag value.Tag) value.Scalar {
	if v.IsNull() {
		return value.Null()
	}
	if v.Tag() == tag {
		return v
	}
	switch tag {
	case value.TagString:
		return value.StringValue(CastString(v))
	case value.TagInt32:
		return value.Int32Value(CastInt32(v))
	case value.TagInt64:
		return value.Int64Value(CastInt64(v))
	case value.TagFloat64:
		return value.Float64Value(CastFloat64(v))
	case value.TagBool:
		return value.BoolValue(CastBool(v))
	default:
		return v
	}
}

// SetScalar navigates to path and overwrites the scalar found there — a
// Scalar node's payload, or one element of a ValueArray — converting v to
// match the existing element's established type (spec §4.B set<T>).
func (n *Node) SetScalar(opts Options, path string, v value.Scalar) error {
	res, ok := n.GetNode(opts, path)
	if !ok {
		return fmt.Errorf("node: set: path %q not found", path)
	}
	if res.ArrayIdx >= 0 {
		res.Node.arrayValues[res.ArrayIdx] = castScalarToTag(v, res.Node.arrayElemTag)
		return nil
	}
	if res.Node.kind != KindScalar {
		return fmt.Errorf("%w: set: %q is not a scalar", ErrShapeMismatch, path)
	}
	if res.Node.scalar.IsNull() {
		res.Node.scalar = v
		return nil
	}
	res.Node.scalar = castScalarToTag(v, res.Node.scalar.Tag())
	return nil
}

// SetJSON navigates to path and, when it addresses an Object (including an
// ObjectArray element, which is itself an Object), reparses jsonText and
// replaces the node in its parent's payload (spec §4.B set<T> on Object).
func (n *Node) SetJSON(opts Options, path string, jsonText string) error {
	res, ok := n.GetNode(opts, path)
	if !ok {
		return fmt.Errorf("node: set: path %q not found", path)
	}
	target := res.Node.materialize(opts)
	if target.kind != KindObject {
		return fmt.Errorf("%w: set: %q is not an object", ErrShapeMismatch, path)
	}
	newNode, err := ParseNode(opts, target.Key(), jsonText)
	if err != nil {
		return err
	}
	newNode.parent = target.parent
	if target.parent != nil {
		target.parent.replaceChildPointer(target, newNode)
	} else {
		key := target.key
		*target = *newNode
		target.key = key
		target.fixupChildParents()
	}
	return nil
}

// AddScalar appends v to a ValueArray node, establishing the array's
// element type on the first call and rejecting heterogeneous elements
// thereafter (spec §3 invariant 3, §4.B add<T>).
func (n *Node) AddScalar(opts Options, v value.Scalar) error {
	if n.kind != KindValueArray {
		return fmt.Errorf("%w: add: node is not a ValueArray", ErrUnsupported)
	}
	if !n.arrayHasElem {
		n.arrayElemTag = v.Tag()
		n.arrayHasElem = true
		n.arrayValues = append(n.arrayValues, v)
		return nil
	}
	if v.Tag() != n.arrayElemTag {
		return fmt.Errorf("%w: add: ValueArray element type mismatch (have %q, got %q)",
			ErrShapeMismatch, n.arrayElemTag, v.Tag())
	}
	n.arrayValues = append(n.arrayValues, v)
	return nil
}

// AddKeyScalar creates (or replaces) a Scalar child of an Object node.
func (n *Node) AddKeyScalar(opts Options, key string, v value.Scalar) error {
	if n.kind != KindObject {
		return fmt.Errorf("%w: add: node is not an Object", ErrUnsupported)
	}
	child := NewScalar(key, v)
	child.parent = n
	insertObjectChild(opts, n, child)
	return nil
}

// AdoptChild attaches an already-constructed node as a keyed child of an
// Object node, the way insertObjectChild would for a freshly parsed child —
// used by callers that build a child node directly (e.g. the table package
// attaching a table's backing array node to the document root) instead of
// going through a JSON-text entry point.
func (n *Node) AdoptChild(opts Options, child *Node) error {
	if n.kind != KindObject {
		return fmt.Errorf("%w: adopt: node is not an Object", ErrUnsupported)
	}
	if !child.HasKey() {
		return fmt.Errorf("%w: adopt: child has no key", ErrUnsupported)
	}
	child.parent = n
	insertObjectChild(opts, n, child)
	return nil
}

// AddJSON parses jsonText as a JSON object and appends it as a new element
// of an ObjectArray node, returning the new element.
func (n *Node) AddJSON(opts Options, jsonText string) (*Node, error) {
	if n.kind != KindObjectArray {
		return nil, fmt.Errorf("%w: add_json: node is not an ObjectArray", ErrUnsupported)
	}
	el, err := jsonscan.Parse(jsonText)
	if err != nil {
		return nil, fmt.Errorf("node: add_json: %w", err)
	}
	if el.Kind() != jsonscan.KindObject {
		return nil, fmt.Errorf("%w: add_json: expected a JSON object", ErrShapeMismatch)
	}
	child := buildFromElement(opts, el, true)
	child.parent = n
	n.arrayItems = append(n.arrayItems, child)
	return child, nil
}

// AddKeyJSON parses jsonText as a JSON object or array and adds it as a
// keyed child of an Object node, dispatching to ParseNode/ParseArrayNode
// per spec §4.B add_json(key, json).
func (n *Node) AddKeyJSON(opts Options, key string, jsonText string) error {
	if n.kind != KindObject {
		return fmt.Errorf("%w: add_json: node is not an Object", ErrUnsupported)
	}
	el, err := jsonscan.Parse(jsonText)
	if err != nil {
		return fmt.Errorf("node: add_json: %w", err)
	}
	switch el.Kind() {
	case jsonscan.KindObject, jsonscan.KindArray:
		child := buildFromElement(opts, el, true)
		child.key = strPtr(key)
		child.parent = n
		insertObjectChild(opts, n, child)
		return nil
	default:
		return fmt.Errorf("%w: add_json: expected a JSON object or array", ErrShapeMismatch)
	}
}

// AddNode appends an already-constructed Object node as a new element of an
// ObjectArray, re-parenting it. Used by callers (the table package) that
// build the child directly instead of going through AddJSON's
// parse-then-append path.
func (n *Node) AddNode(opts Options, child *Node) error {
	if n.kind != KindObjectArray {
		return fmt.Errorf("%w: add: node is not an ObjectArray", ErrUnsupported)
	}
	child.parent = n
	n.arrayItems = append(n.arrayItems, child)
	return nil
}

// ReplaceWithJSON reparses jsonText as a JSON object and overwrites n's
// content in place, preserving n's identity (its pointer, and so its
// position in any parent's payload and any external reference to it, such
// as a table's id index) — the same in-place-overwrite technique
// materialize uses for lazy nodes.
func (n *Node) ReplaceWithJSON(opts Options, jsonText string) error {
	if n.kind != KindObject {
		return fmt.Errorf("%w: replace: node is not an object", ErrShapeMismatch)
	}
	built, err := ParseNode(opts, n.Key(), jsonText)
	if err != nil {
		return err
	}
	key, parent := n.key, n.parent
	*n = *built
	n.key = key
	n.parent = parent
	n.fixupChildParents()
	return nil
}

// Append navigates to path and appends v there via AddScalar.
func (n *Node) Append(opts Options, path string, v value.Scalar) error {
	res, ok := n.GetNode(opts, path)
	if !ok {
		return fmt.Errorf("node: append: path %q not found", path)
	}
	return res.Node.AddScalar(opts, v)
}

// Remove navigates to the parent of path's terminal segment and unlinks
// it: a "$N" terminal splices out an array element, otherwise the child is
// removed from its parent's Object payload (spec §4.B remove).
func (n *Node) Remove(opts Options, path string) error {
	keys := splitPath(path)
	if len(keys) == 0 {
		return fmt.Errorf("%w: remove requires a non-empty path", ErrUnsupported)
	}
	parent := n
	if len(keys) > 1 {
		res, ok := tryGetNode(opts, n, keys[:len(keys)-1], 0)
		if !ok {
			return fmt.Errorf("node: remove: path %q not found", path)
		}
		parent = res.Node
	}
	parent = parent.materialize(opts)
	last := keys[len(keys)-1]

	if num, ok := parseIndexSegment(last); ok {
		switch parent.kind {
		case KindValueArray:
			if num > len(parent.arrayValues) {
				return fmt.Errorf("node: remove: index %d out of range", num)
			}
			parent.arrayValues = append(parent.arrayValues[:num-1], parent.arrayValues[num:]...)
			return nil
		case KindObjectArray:
			if num > len(parent.arrayItems) {
				return fmt.Errorf("node: remove: index %d out of range", num)
			}
			parent.arrayItems = append(parent.arrayItems[:num-1], parent.arrayItems[num:]...)
			return nil
		default:
			return fmt.Errorf("%w: remove: %q is not an array", ErrShapeMismatch, path)
		}
	}

	if parent.kind != KindObject {
		return fmt.Errorf("%w: remove: %q is not an object", ErrShapeMismatch, path)
	}
	for i, c := range parent.children {
		if c.Key() == last {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("node: remove: key %q not found", last)
}
