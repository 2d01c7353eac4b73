// Package predicate implements the document store's row filter
// combinators: comparison, pattern, membership, and nullness tests over a
// single field path, composed with And/Or (spec §6 "Predicate helpers").
package predicate

import (
	"strings"

	"github.com/jsondb-go/jsondb/internal/value"
	"github.com/jsondb-go/jsondb/node"
)

// Predicate is a callable accepting a document Node and yielding bool, the
// Go shape of the source's "each returns a callable accepting a Node and
// yielding bool" (spec §6).
type Predicate func(opts node.Options, doc *node.Node) bool

// numeric reports whether tag is one of the numeric scalar kinds, in which
// case comparisons are done on the numeric value rather than lexically.
func numeric(t value.Tag) bool {
	return t == value.TagInt32 || t == value.TagInt64 || t == value.TagFloat64
}

// compare orders two scalars: numerically if both are numeric, lexically
// on their string form otherwise. Null sorts before every non-null value.
func compare(a, b value.Scalar) int {
	if a.IsNull() && b.IsNull() {
		return 0
	}
	if a.IsNull() {
		return -1
	}
	if b.IsNull() {
		return 1
	}
	if numeric(a.Tag()) && numeric(b.Tag()) {
		af, bf := node.CastFloat64(a), node.CastFloat64(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as, bs := node.CastString(a), node.CastString(b)
	return strings.Compare(as, bs)
}

func fieldValue(opts node.Options, doc *node.Node, path string) (value.Scalar, bool) {
	return doc.ScalarAt(opts, path)
}

// Eq matches documents whose value at path equals v.
func Eq(path string, v value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return ok && compare(got, v) == 0
	}
}

// Ne matches documents whose value at path does not equal v, including
// when path does not resolve to a scalar at all.
func Ne(path string, v value.Scalar) Predicate {
	eq := Eq(path, v)
	return func(opts node.Options, doc *node.Node) bool { return !eq(opts, doc) }
}

// Lt matches documents whose value at path orders before v.
func Lt(path string, v value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return ok && compare(got, v) < 0
	}
}

// Le matches documents whose value at path orders at or before v.
func Le(path string, v value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return ok && compare(got, v) <= 0
	}
}

// Gt matches documents whose value at path orders after v.
func Gt(path string, v value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return ok && compare(got, v) > 0
	}
}

// Ge matches documents whose value at path orders at or after v.
func Ge(path string, v value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return ok && compare(got, v) >= 0
	}
}

// Like matches documents whose string value at path fits a SQL-style
// pattern: "%" matches any run of characters, "_" matches exactly one.
func Like(path string, pattern string) Predicate {
	re := likeToRegexp(pattern)
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		if !ok || got.IsNull() {
			return false
		}
		return re.MatchString(node.CastString(got))
	}
}

// In matches documents whose value at path equals any of values.
func In(path string, values ...value.Scalar) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		if !ok {
			return false
		}
		for _, v := range values {
			if compare(got, v) == 0 {
				return true
			}
		}
		return false
	}
}

// Null matches documents whose value at path is absent or explicitly null.
func Null(path string) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		got, ok := fieldValue(opts, doc, path)
		return !ok || got.IsNull()
	}
}

// NotNull matches documents whose value at path is present and non-null.
func NotNull(path string) Predicate {
	null := Null(path)
	return func(opts node.Options, doc *node.Node) bool { return !null(opts, doc) }
}

// Len matches documents whose array or string value at path has exactly n
// elements/characters.
func Len(path string, n int) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		res, ok := doc.GetNode(opts, path)
		if !ok {
			return false
		}
		switch res.Node.Kind() {
		case node.KindValueArray:
			return res.ArrayIdx < 0 && len(res.Node.ArrayValues()) == n
		case node.KindObjectArray:
			return len(res.Node.ArrayItems()) == n
		case node.KindObject:
			return len(res.Node.Children()) == n
		case node.KindScalar:
			return len([]rune(node.CastString(res.Node.Scalar()))) == n
		default:
			return false
		}
	}
}

// And matches documents every one of preds accepts.
func And(preds ...Predicate) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		for _, p := range preds {
			if !p(opts, doc) {
				return false
			}
		}
		return true
	}
}

// Or matches documents at least one of preds accepts.
func Or(preds ...Predicate) Predicate {
	return func(opts node.Options, doc *node.Node) bool {
		for _, p := range preds {
			if p(opts, doc) {
				return true
			}
		}
		return false
	}
}
