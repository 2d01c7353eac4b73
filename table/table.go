// Package table implements the record container that sits on top of the
// node tree and the index manager: it owns one root Object, one backing
// array node per table, a constant-time id lookup map, and the set of
// indexes that every mutation is replayed through (spec §4.E).
package table

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jsondb-go/jsondb/index"
	"github.com/jsondb-go/jsondb/internal/value"
	"github.com/jsondb-go/jsondb/node"
)

// ErrNotFound is returned when an id or index lookup has no match.
var ErrNotFound = fmt.Errorf("table: not found")

// Table is a named record container. The zero Table is not valid; use New.
type Table struct {
	opts node.Options
	name string

	root      *node.Node // Object
	tableNode *node.Node // ObjectArray or ValueArray, child of root, created on first insert or AddIndex

	mainTable map[string]*node.Node // id -> document, ObjectArray mode only
	indexes   map[string]index.Index
}

// New creates a table named name, deferring creation of its backing array
// node to the first insert or AddIndex call (spec §4.E create).
func New(opts node.Options, name string) *Table {
	return &Table{
		opts:      opts,
		name:      name,
		root:      node.NewObject(""),
		mainTable: make(map[string]*node.Node),
		indexes:   make(map[string]index.Index),
	}
}

// Open reconstructs a Table around a root node produced by the snapshot
// codec: it locates the child named name and treats it as the table's
// backing array, rebuilding main_table from every element's "_id" (spec
// §4.F reader: "reconnect table_node = root.get_node(table_name)").
// Indexes are not persisted by the snapshot codec and must be re-added by
// the caller with AddIndex, which backfills from the reconstructed state.
func Open(opts node.Options, name string, root *node.Node) *Table {
	t := &Table{
		opts:      opts,
		name:      name,
		root:      root,
		mainTable: make(map[string]*node.Node),
		indexes:   make(map[string]index.Index),
	}
	for _, c := range root.Children() {
		if c.Key() == name {
			t.tableNode = c
			break
		}
	}
	if t.tableNode != nil && t.tableNode.Kind() == node.KindObjectArray {
		for _, doc := range t.tableNode.ArrayItems() {
			if id, ok := doc.GetString(opts, "_id"); ok {
				t.mainTable[id] = doc
			}
		}
	}
	return t
}

// Name returns the table's name.
func (t *Table) Name() string { return t.name }

// Root returns the table's root Object node (the snapshot codec's entry
// point).
func (t *Table) Root() *node.Node { return t.root }

func (t *Table) ensureObjectArray() error {
	if t.tableNode == nil {
		t.tableNode = node.NewObjectArray(t.name)
		return t.root.AdoptChild(t.opts, t.tableNode)
	}
	if t.tableNode.Kind() != node.KindObjectArray {
		return fmt.Errorf("table: %q was created as a ValueArray, not an ObjectArray", t.name)
	}
	return nil
}

func (t *Table) ensureValueArray() error {
	if t.tableNode == nil {
		t.tableNode = node.NewValueArray(t.name)
		return t.root.AdoptChild(t.opts, t.tableNode)
	}
	if t.tableNode.Kind() != node.KindValueArray {
		return fmt.Errorf("table: %q was created as an ObjectArray, not a ValueArray", t.name)
	}
	return nil
}

// TableNode returns the table's backing array node, or nil before the
// first insert or AddIndex call.
func (t *Table) TableNode() *node.Node { return t.tableNode }

// IndexNames returns the names of every index registered on the table,
// sorted ascending.
func (t *Table) IndexNames() []string { return index.Names(t.indexes) }

// AddIndex builds and registers an index over fields, then scans every
// record already in the table and populates the new index from them
// before returning (spec §9: "add_index must scan existing records and
// populate the new index before returning").
func (t *Table) AddIndex(name string, unique bool, fields ...string) error {
	if err := t.ensureObjectArray(); err != nil {
		return err
	}
	var idx index.Index
	if unique {
		idx = index.NewUnique(name, fields)
	} else {
		idx = index.NewMulti(name, fields)
	}
	for _, doc := range t.tableNode.ArrayItems() {
		id, ok := doc.GetString(t.opts, "_id")
		if !ok {
			continue
		}
		if err := idx.InsertDoc(t.opts, id, doc); err != nil {
			return fmt.Errorf("table: add_index %q: backfill record %q: %w", name, id, err)
		}
	}
	t.indexes[name] = idx
	return nil
}

// Insert parses jsonText as a JSON object, assigns it a UUID "_id", appends
// it to the table's ObjectArray, and notifies every index (spec §4.E
// insert(json)).
func (t *Table) Insert(jsonText string) (*node.Node, string, error) {
	if err := t.ensureObjectArray(); err != nil {
		return nil, "", err
	}
	doc, err := node.ParseNode(t.opts, "", jsonText)
	if err != nil {
		return nil, "", err
	}
	id := uuid.NewString()
	if err := doc.AddKeyScalar(t.opts, "_id", value.StringValue(id)); err != nil {
		return nil, "", err
	}
	if err := t.tableNode.AddNode(t.opts, doc); err != nil {
		return nil, "", err
	}
	t.mainTable[id] = doc
	for _, idx := range t.indexes {
		if err := idx.InsertDoc(t.opts, id, doc); err != nil {
			return nil, "", err
		}
	}
	return doc, id, nil
}

// InsertScalar appends v to the table's ValueArray. ValueArray-backed
// tables carry no ids and support no indexes (spec §4.E insert(scalar)).
func (t *Table) InsertScalar(v value.Scalar) error {
	if err := t.ensureValueArray(); err != nil {
		return err
	}
	return t.tableNode.AddScalar(t.opts, v)
}

// Get returns the document stored under id.
func (t *Table) Get(id string) (*node.Node, bool) {
	doc, ok := t.mainTable[id]
	return doc, ok
}

// GetAt returns the n-th (1-based) element of the table's backing array,
// matching table_node.get_node("$N") from spec §4.E.
func (t *Table) GetAt(n int) (*node.Node, bool) {
	if t.tableNode == nil {
		return nil, false
	}
	res, ok := t.tableNode.GetNode(t.opts, fmt.Sprintf("$%d", n))
	if !ok {
		return nil, false
	}
	return res.Node, true
}

// Update replaces the document stored under id with jsonText, preserving
// "_id" and propagating the change through every index (spec §4.E update).
func (t *Table) Update(id string, jsonText string) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	oldClone := doc.Clone()
	if err := doc.ReplaceWithJSON(t.opts, jsonText); err != nil {
		return err
	}
	if err := doc.AddKeyScalar(t.opts, "_id", value.StringValue(id)); err != nil {
		return err
	}
	return t.reindex(id, oldClone, doc)
}

// SetScalar clones id's current document (so indexes see the prior
// composite key), applies a scalar set at path, then propagates the change
// through every index (spec §4.E set<T>).
func (t *Table) SetScalar(id, path string, v value.Scalar) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	oldClone := doc.Clone()
	if err := doc.SetScalar(t.opts, path, v); err != nil {
		return err
	}
	return t.reindex(id, oldClone, doc)
}

// SetJSON is SetScalar's counterpart for replacing an Object-valued path.
func (t *Table) SetJSON(id, path, jsonText string) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	oldClone := doc.Clone()
	if err := doc.SetJSON(t.opts, path, jsonText); err != nil {
		return err
	}
	return t.reindex(id, oldClone, doc)
}

// AddScalar clone-then-applies an array append at path (spec §4.E add<T>).
func (t *Table) AddScalar(id, path string, v value.Scalar) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	oldClone := doc.Clone()
	target := doc
	if path != "" {
		res, ok := doc.GetNode(t.opts, path)
		if !ok {
			return fmt.Errorf("table: add: path %q not found", path)
		}
		target = res.Node
	}
	if err := target.AddScalar(t.opts, v); err != nil {
		return err
	}
	return t.reindex(id, oldClone, doc)
}

// AddKeyJSON clone-then-applies add_json(key, json) at path.
func (t *Table) AddKeyJSON(id, path, key, jsonText string) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	oldClone := doc.Clone()
	target := doc
	if path != "" {
		res, ok := doc.GetNode(t.opts, path)
		if !ok {
			return fmt.Errorf("table: add_json: path %q not found", path)
		}
		target = res.Node
	}
	if err := target.AddKeyJSON(t.opts, key, jsonText); err != nil {
		return err
	}
	return t.reindex(id, oldClone, doc)
}

func (t *Table) reindex(id string, oldDoc, newDoc *node.Node) error {
	for _, idx := range t.indexes {
		if err := idx.UpdateDoc(t.opts, id, oldDoc, newDoc); err != nil {
			return err
		}
	}
	return nil
}

// Delete detaches id's document from the table array and notifies every
// index (spec §4.E delete).
func (t *Table) Delete(id string) error {
	doc, ok := t.mainTable[id]
	if !ok {
		return fmt.Errorf("%w: id %q", ErrNotFound, id)
	}
	items := t.tableNode.ArrayItems()
	for i, item := range items {
		if item == doc {
			if err := t.tableNode.Remove(t.opts, fmt.Sprintf("$%d", i+1)); err != nil {
				return err
			}
			break
		}
	}
	for _, idx := range t.indexes {
		if err := idx.RemoveDoc(t.opts, id, doc); err != nil {
			return err
		}
	}
	delete(t.mainTable, id)
	return nil
}

// resolveIDs maps record ids back to their stored documents, in the given
// order, dropping any id the main table no longer has (e.g. a narrow race
// between an index read and a concurrent delete the caller failed to
// serialize, per the spec's single-writer expectation).
func (t *Table) resolveIDs(ids []string) []*node.Node {
	out := make([]*node.Node, 0, len(ids))
	for _, id := range ids {
		if doc, ok := t.mainTable[id]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// Find dispatches an exact-match lookup to the named index. A unique index
// yields at most one document; a multi index yields every match, in
// insertion order (spec §4.E find).
func (t *Table) Find(indexName string, args ...string) ([]*node.Node, error) {
	idx, ok := t.indexes[indexName]
	if !ok {
		return nil, fmt.Errorf("table: no such index %q", indexName)
	}
	switch v := idx.(type) {
	case *index.UniqueIndex:
		id, ok := v.Find(args...)
		if !ok {
			return nil, nil
		}
		return t.resolveIDs([]string{id}), nil
	case *index.MultiIndex:
		return t.resolveIDs(v.Find(args...)), nil
	default:
		return nil, fmt.Errorf("table: index %q has an unrecognized type", indexName)
	}
}

// LeftFind dispatches a prefix lookup to the named index.
func (t *Table) LeftFind(indexName string, args ...string) ([]*node.Node, error) {
	idx, ok := t.indexes[indexName]
	if !ok {
		return nil, fmt.Errorf("table: no such index %q", indexName)
	}
	return t.resolveIDs(idx.LeftFind(args...)), nil
}

// RangeFind dispatches an inclusive range lookup to the named index.
func (t *Table) RangeFind(indexName string, loArgs, hiArgs []string) ([]*node.Node, error) {
	idx, ok := t.indexes[indexName]
	if !ok {
		return nil, fmt.Errorf("table: no such index %q", indexName)
	}
	return t.resolveIDs(idx.RangeFind(loArgs, hiArgs)), nil
}

// Filter scans the table's backing ObjectArray in order and returns every
// document pred accepts (spec §4.E "Predicate iteration yields stored nodes
// in array order").
func (t *Table) Filter(pred func(opts node.Options, doc *node.Node) bool) []*node.Node {
	if t.tableNode == nil {
		return nil
	}
	var out []*node.Node
	for _, doc := range t.tableNode.ArrayItems() {
		if pred(t.opts, doc) {
			out = append(out, doc)
		}
	}
	return out
}
