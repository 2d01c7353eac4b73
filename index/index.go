// Package index implements the two B+-tree-backed index variants the
// document store maintains over composite field values: a unique index
// (composite key -> one record id) and a multi index (composite key -> a
// list of record ids), both addressable by exact, prefix, and range
// queries (spec §4.D).
package index

import (
	"sort"
	"strings"

	"github.com/jsondb-go/jsondb/bptree"
	"github.com/jsondb-go/jsondb/node"
)

// Index is the shared surface both variants expose to a Table: document
// lifecycle notifications, teardown, and the prefix and range queries,
// which return a list of ids on both variants. Find is kept off this
// interface because its return shape differs by variant (one id vs. a
// list) — Go's static return types make that a better fit than the
// source's single dynamic-return interface.
type Index interface {
	Name() string
	Fields() []string
	Unique() bool
	InsertDoc(opts node.Options, id string, doc *node.Node) error
	RemoveDoc(opts node.Options, id string, doc *node.Node) error
	UpdateDoc(opts node.Options, id string, oldDoc, newDoc *node.Node) error
	LeftFind(args ...string) []string
	RangeFind(loArgs, hiArgs []string) []string
	Clear()
}

// compositeKey reads each field path from doc and joins the textual forms
// with a comma (spec §4.D "Composite key"). A prefix query supplying fewer
// than the index's full field count appends a trailing comma so the
// comparator binds only at a field boundary — "张三" must not match
// "张三丰,...".
func compositeKey(opts node.Options, doc *node.Node, fields []string, full bool) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		v, _ := doc.GetString(opts, f)
		parts[i] = v
	}
	key := strings.Join(parts, ",")
	if !full {
		key += ","
	}
	return key
}

// UniqueIndex maps a composite key to a single record id. A second insert
// under the same key overwrites the first (spec §4.D "latest wins").
type UniqueIndex struct {
	name   string
	fields []string
	tree   *bptree.Tree
}

// NewUnique constructs an empty unique index over the given field paths.
func NewUnique(name string, fields []string) *UniqueIndex {
	return &UniqueIndex{name: name, fields: append([]string(nil), fields...), tree: bptree.New(bptree.DefaultOrder)}
}

func (u *UniqueIndex) Name() string     { return u.name }
func (u *UniqueIndex) Fields() []string { return u.fields }
func (u *UniqueIndex) Unique() bool     { return true }

func (u *UniqueIndex) InsertDoc(opts node.Options, id string, doc *node.Node) error {
	key := compositeKey(opts, doc, u.fields, true)
	return u.tree.Insert(key, id)
}

func (u *UniqueIndex) RemoveDoc(opts node.Options, id string, doc *node.Node) error {
	key := compositeKey(opts, doc, u.fields, true)
	u.tree.Remove(key)
	return nil
}

func (u *UniqueIndex) UpdateDoc(opts node.Options, id string, oldDoc, newDoc *node.Node) error {
	oldKey := compositeKey(opts, oldDoc, u.fields, true)
	newKey := compositeKey(opts, newDoc, u.fields, true)
	if oldKey == newKey {
		return nil
	}
	u.tree.Remove(oldKey)
	return u.tree.Insert(newKey, id)
}

func (u *UniqueIndex) Clear() { u.tree = bptree.New(bptree.DefaultOrder) }

// Find returns the record id stored under the full composite key built
// from args, one value per configured field.
func (u *UniqueIndex) Find(args ...string) (string, bool) {
	key := strings.Join(args, ",")
	v, ok := u.tree.Find(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// LeftFind returns every id whose key starts with the composite prefix
// built from args (fewer values than the index has fields).
func (u *UniqueIndex) LeftFind(args ...string) []string {
	prefix := strings.Join(args, ",") + ","
	vals := u.tree.LeftFind(prefix)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// RangeFind returns every id whose composite key falls inclusively between
// the keys built from loArgs and hiArgs.
func (u *UniqueIndex) RangeFind(loArgs, hiArgs []string) []string {
	lo := strings.Join(loArgs, ",")
	hi := strings.Join(hiArgs, ",")
	vals := u.tree.RangeFind(lo, hi)
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.(string)
	}
	return out
}

// MultiIndex maps a composite key to the list of record ids that share it.
type MultiIndex struct {
	name   string
	fields []string
	tree   *bptree.Tree
}

// NewMulti constructs an empty multi index over the given field paths.
func NewMulti(name string, fields []string) *MultiIndex {
	return &MultiIndex{name: name, fields: append([]string(nil), fields...), tree: bptree.New(bptree.DefaultOrder)}
}

func (m *MultiIndex) Name() string     { return m.name }
func (m *MultiIndex) Fields() []string { return m.fields }
func (m *MultiIndex) Unique() bool     { return false }

func (m *MultiIndex) InsertDoc(opts node.Options, id string, doc *node.Node) error {
	key := compositeKey(opts, doc, m.fields, true)
	var list []string
	if existing, ok := m.tree.Find(key); ok {
		list = existing.([]string)
	}
	list = append(list, id)
	return m.tree.Insert(key, list)
}

func (m *MultiIndex) RemoveDoc(opts node.Options, id string, doc *node.Node) error {
	key := compositeKey(opts, doc, m.fields, true)
	existing, ok := m.tree.Find(key)
	if !ok {
		return nil
	}
	list := existing.([]string)
	out := list[:0]
	for _, v := range list {
		if v != id {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		m.tree.Remove(key)
		return nil
	}
	return m.tree.Insert(key, out)
}

func (m *MultiIndex) UpdateDoc(opts node.Options, id string, oldDoc, newDoc *node.Node) error {
	oldKey := compositeKey(opts, oldDoc, m.fields, true)
	newKey := compositeKey(opts, newDoc, m.fields, true)
	if oldKey == newKey {
		return nil
	}
	if err := m.RemoveDoc(opts, id, oldDoc); err != nil {
		return err
	}
	return m.InsertDoc(opts, id, newDoc)
}

func (m *MultiIndex) Clear() { m.tree = bptree.New(bptree.DefaultOrder) }

// Find returns every id stored under the full composite key built from
// args, in insertion order.
func (m *MultiIndex) Find(args ...string) []string {
	key := strings.Join(args, ",")
	v, ok := m.tree.Find(key)
	if !ok {
		return nil
	}
	return v.([]string)
}

// LeftFind returns every id under any key matching the composite prefix
// built from args, flattening the per-key lists in ascending key order.
func (m *MultiIndex) LeftFind(args ...string) []string {
	prefix := strings.Join(args, ",") + ","
	vals := m.tree.LeftFind(prefix)
	var out []string
	for _, v := range vals {
		out = append(out, v.([]string)...)
	}
	return out
}

// RangeFind returns every id whose composite key falls inclusively between
// the keys built from loArgs and hiArgs, flattened in ascending key order.
func (m *MultiIndex) RangeFind(loArgs, hiArgs []string) []string {
	lo := strings.Join(loArgs, ",")
	hi := strings.Join(hiArgs, ",")
	vals := m.tree.RangeFind(lo, hi)
	var out []string
	for _, v := range vals {
		out = append(out, v.([]string)...)
	}
	return out
}

// Names returns every index name in idxs, sorted ascending — used by
// callers (e.g. the CLI's "indexes" command) that need a stable listing
// order; it plays no part in lookup semantics.
func Names(idxs map[string]Index) []string {
	names := make([]string, 0, len(idxs))
	for name := range idxs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
