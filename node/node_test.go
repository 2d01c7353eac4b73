package node

import (
	"strings"
	"testing"

	"github.com/jsondb-go/jsondb/internal/value"
)

func TestParseNodeBuildsEagerTree(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"name":"张三","age":30,"active":true,"tags":["a","b"],"meta":null}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if n.Kind() != KindObject {
		t.Fatalf("Kind() = %v, want Object", n.Kind())
	}
	if got, ok := n.GetString(opts, "name"); !ok || got != "张三" {
		t.Fatalf("GetString(name) = %q, %v", got, ok)
	}
	if got, ok := n.GetInt64(opts, "age"); !ok || got != 30 {
		t.Fatalf("GetInt64(age) = %d, %v", got, ok)
	}
	if got, ok := n.GetBool(opts, "active"); !ok || !got {
		t.Fatalf("GetBool(active) = %v, %v", got, ok)
	}
	if got, ok := n.GetString(opts, "tags.$1"); !ok || got != "a" {
		t.Fatalf("GetString(tags.$1) = %q, %v", got, ok)
	}
	if got, ok := n.GetString(opts, "meta"); !ok || got != "" {
		t.Fatalf("GetString(meta) = %q, %v want empty null", got, ok)
	}
}

func TestParseNodeObjectArray(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"users":[{"name":"a"},{"name":"b"}]}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if got, ok := n.GetString(opts, "users.$2.name"); !ok || got != "b" {
		t.Fatalf("GetString(users.$2.name) = %q, %v", got, ok)
	}
}

func TestLazyMaterializationPreservesIdentity(t *testing.T) {
	opts := DefaultOptions()
	opts.EnableLazy = true
	n, err := ParseNode(opts, "root", `{"inner":{"a":1}}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	inner := n.children[0]
	if inner.Kind() != KindLazyObject {
		t.Fatalf("expected inner to be lazy, got %v", inner.Kind())
	}
	if got, ok := n.GetInt64(opts, "inner.a"); !ok || got != 1 {
		t.Fatalf("GetInt64(inner.a) = %d, %v", got, ok)
	}
	// Same Go object materialized in place: identity preserved.
	if inner.Kind() != KindObject {
		t.Fatalf("expected inner materialized in place, got %v", inner.Kind())
	}
	if inner.parent != n {
		t.Fatalf("materialize lost parent link")
	}
}

func TestSetScalarCastsToEstablishedType(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"age":30}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if err := n.SetScalar(opts, "age", value.StringValue("45")); err != nil {
		t.Fatalf("SetScalar: %v", err)
	}
	got, ok := n.GetInt64(opts, "age")
	if !ok || got != 45 {
		t.Fatalf("GetInt64(age) after set = %d, %v", got, ok)
	}
}

func TestValueArrayAddAndHeterogeneousReject(t *testing.T) {
	opts := DefaultOptions()
	arr := NewValueArray("tags")
	if err := arr.AddScalar(opts, value.StringValue("a")); err != nil {
		t.Fatalf("AddScalar: %v", err)
	}
	if err := arr.AddScalar(opts, value.StringValue("b")); err != nil {
		t.Fatalf("AddScalar: %v", err)
	}
	if err := arr.AddScalar(opts, value.Int64Value(5)); err == nil {
		t.Fatalf("expected shape mismatch adding int64 to string array")
	}
	if len(arr.ArrayValues()) != 2 {
		t.Fatalf("len(ArrayValues()) = %d, want 2", len(arr.ArrayValues()))
	}
}

func TestRemoveFromObjectAndArray(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"a":1,"b":[1,2,3]}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if err := n.Remove(opts, "a"); err != nil {
		t.Fatalf("Remove(a): %v", err)
	}
	if _, ok := n.GetNode(opts, "a"); ok {
		t.Fatalf("expected a removed")
	}
	if err := n.Remove(opts, "b.$2"); err != nil {
		t.Fatalf("Remove(b.$2): %v", err)
	}
	if got, ok := n.GetInt64(opts, "b.$2"); !ok || got != 3 {
		t.Fatalf("after remove GetInt64(b.$2) = %d, %v, want 3", got, ok)
	}
}

func TestAddJSONOnObjectArray(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"users":[{"name":"a"}]}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	usersRes, ok := n.GetNode(opts, "users")
	if !ok {
		t.Fatalf("GetNode(users) failed")
	}
	if _, err := usersRes.Node.AddJSON(opts, `{"name":"b"}`); err != nil {
		t.Fatalf("AddJSON: %v", err)
	}
	if got, ok := n.GetString(opts, "users.$2.name"); !ok || got != "b" {
		t.Fatalf("GetString(users.$2.name) = %q, %v", got, ok)
	}
}

func TestSetJSONReplacesObjectElement(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"users":[{"name":"a"}]}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if err := n.SetJSON(opts, "users.$1", `{"name":"z","age":9}`); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	if got, ok := n.GetString(opts, "users.$1.name"); !ok || got != "z" {
		t.Fatalf("GetString(users.$1.name) = %q, %v", got, ok)
	}
	if got, ok := n.GetInt64(opts, "users.$1.age"); !ok || got != 9 {
		t.Fatalf("GetInt64(users.$1.age) = %d, %v", got, ok)
	}
}

func TestToJSONRoundTripsShape(t *testing.T) {
	opts := DefaultOptions()
	src := `{"active":true,"age":30,"name":"a\"b","tags":["x","y"]}`
	n, err := ParseNode(opts, "root", src)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	out := n.ToJSON()
	if !strings.Contains(out, `"name":"a\"b"`) {
		t.Fatalf("ToJSON() = %s, missing escaped name field", out)
	}
	if !strings.Contains(out, `"tags":["x","y"]`) {
		t.Fatalf("ToJSON() = %s, missing tags array", out)
	}
}

func TestCloneDetachesFromParent(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"a":{"b":1}}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	aRes, _ := n.GetNode(opts, "a")
	clone := aRes.Node.Clone()
	if clone.Parent() != nil {
		t.Fatalf("Clone() kept parent link")
	}
	if err := clone.SetScalar(opts, "b", value.Int64Value(99)); err != nil {
		t.Fatalf("SetScalar on clone: %v", err)
	}
	if got, ok := n.GetInt64(opts, "a.b"); !ok || got != 1 {
		t.Fatalf("mutation of clone leaked into source: GetInt64(a.b) = %d, %v", got, ok)
	}
}

func TestEmptyPathResolvesToSelf(t *testing.T) {
	opts := DefaultOptions()
	n, err := ParseNode(opts, "root", `{"a":1}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	res, ok := n.GetNode(opts, "")
	if !ok || res.Node != n {
		t.Fatalf("GetNode(\"\") did not resolve to self")
	}
}

func TestRecursiveModeFindsNestedKey(t *testing.T) {
	opts := DefaultOptions()
	opts.RecursiveMode = true
	n, err := ParseNode(opts, "root", `{"a":{"b":{"c":7}}}`)
	if err != nil {
		t.Fatalf("ParseNode: %v", err)
	}
	if got, ok := n.GetInt64(opts, "c"); !ok || got != 7 {
		t.Fatalf("recursive GetInt64(c) = %d, %v", got, ok)
	}
}
