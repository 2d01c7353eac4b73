package node

import (
	"sort"
	"strconv"
	"strings"
)

// splitPath splits a dotted path into segments. An empty path yields an
// empty segment slice, so navigating "" resolves to the starting node
// itself (spec §8 invariant 5: get_node(p).get_node("") ≡ get_node(p)).
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// parseIndexSegment parses a "$N" segment into its 1-based index. Returns
// false if seg is not of that form.
func parseIndexSegment(seg string) (int, bool) {
	if len(seg) < 2 || seg[0] != '$' {
		return 0, false
	}
	n, err := strconv.Atoi(seg[1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// NavResult is the outcome of a successful path navigation. ArrayIdx is the
// 0-based index into Node.ArrayValues() when Node is a ValueArray and the
// terminal segment addressed one scalar element; it is -1 in every other
// case (Node itself is the hit).
type NavResult struct {
	Node     *Node
	ArrayIdx int
}

// GetNode resolves path against n and returns the addressed node (or, for a
// "$N" terminal into a ValueArray, the array node together with the element
// index — see NavResult). Returns ok=false when any segment fails to
// resolve.
func (n *Node) GetNode(opts Options, path string) (NavResult, bool) {
	keys := splitPath(path)
	if opts.RecursiveMode {
		return tryGetNodeRecursive(opts, n, keys, 0)
	}
	return tryGetNode(opts, n, keys, 0)
}

func tryGetNode(opts Options, start *Node, keys []string, startIdx int) (NavResult, bool) {
	curr := start
	idx := startIdx
	for {
		curr = curr.materialize(opts)
		if idx >= len(keys) {
			return NavResult{Node: curr, ArrayIdx: -1}, true
		}
		key := keys[idx]
		terminal := idx == len(keys)-1

		switch curr.kind {
		case KindScalar:
			if terminal && curr.key != nil && *curr.key == key {
				return NavResult{Node: curr, ArrayIdx: -1}, true
			}
			return NavResult{}, false

		case KindObject:
			child, ok := curr.findChild(opts, key)
			if !ok {
				return NavResult{}, false
			}
			if terminal {
				child = child.materialize(opts)
				return NavResult{Node: child, ArrayIdx: -1}, true
			}
			curr = child
			idx++

		case KindValueArray:
			num, ok := parseIndexSegment(key)
			if !ok || num > len(curr.arrayValues) {
				return NavResult{}, false
			}
			return NavResult{Node: curr, ArrayIdx: num - 1}, true

		case KindObjectArray:
			num, ok := parseIndexSegment(key)
			if !ok || num > len(curr.arrayItems) {
				return NavResult{}, false
			}
			elem := curr.arrayItems[num-1].materialize(opts)
			curr.arrayItems[num-1] = elem
			if terminal {
				return NavResult{Node: elem, ArrayIdx: -1}, true
			}
			curr = elem
			idx++

		default:
			return NavResult{}, false
		}
	}
}

// tryGetNodeRecursive implements recursive_mode addressing: a segment
// matches if it equals the current node's own key; otherwise every child is
// tried depth-first and the first hit wins.
func tryGetNodeRecursive(opts Options, curr *Node, keys []string, idx int) (NavResult, bool) {
	curr = curr.materialize(opts)
	if idx >= len(keys) {
		return NavResult{Node: curr, ArrayIdx: -1}, true
	}
	key := keys[idx]

	if curr.key != nil && *curr.key == key {
		if idx == len(keys)-1 {
			return NavResult{Node: curr, ArrayIdx: -1}, true
		}
		if res, ok := tryGetNodeRecursive(opts, curr, keys, idx+1); ok {
			return res, true
		}
	}

	if num, ok := parseIndexSegment(key); ok {
		switch curr.kind {
		case KindValueArray:
			if num <= len(curr.arrayValues) {
				if idx == len(keys)-1 {
					return NavResult{Node: curr, ArrayIdx: num - 1}, true
				}
			}
		case KindObjectArray:
			if num <= len(curr.arrayItems) {
				elem := curr.arrayItems[num-1].materialize(opts)
				curr.arrayItems[num-1] = elem
				if idx == len(keys)-1 {
					return NavResult{Node: elem, ArrayIdx: -1}, true
				}
				if res, ok := tryGetNodeRecursive(opts, elem, keys, idx+1); ok {
					return res, true
				}
			}
		}
	}

	for _, child := range curr.descendCandidates() {
		if res, ok := tryGetNodeRecursive(opts, child, keys, idx); ok {
			return res, true
		}
	}
	return NavResult{}, false
}

// descendCandidates returns the nodes a recursive-mode search should try
// next: an Object's children, or an ObjectArray's elements.
func (n *Node) descendCandidates() []*Node {
	switch n.kind {
	case KindObject:
		return n.children
	case KindObjectArray:
		return n.arrayItems
	default:
		return nil
	}
}

// findChild looks up an Object node's child by key: binary search when
// Sort && BinarySearch are both set, otherwise a linear scan that returns
// the first match by insertion order (spec §4.B "Child lookup").
func (n *Node) findChild(opts Options, key string) (*Node, bool) {
	if opts.Sort && opts.BinarySearch {
		i := sort.Search(len(n.children), func(i int) bool {
			return n.children[i].Key() >= key
		})
		if i < len(n.children) && n.children[i].Key() == key {
			return n.children[i], true
		}
		return nil, false
	}
	for _, c := range n.children {
		if c.Key() == key {
			return c, true
		}
	}
	return nil, false
}
