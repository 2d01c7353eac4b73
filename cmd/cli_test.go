package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCreateInsertGetRoundTrip(t *testing.T) {
	file := filepath.Join(t.TempDir(), "students.snapshot")

	if _, err := runCLI(t, "--file", file, "--table", "students", "create"); err != nil {
		t.Fatalf("create: %v", err)
	}
	out, err := runCLI(t, "--file", file, "--table", "students", "insert", `{"name":"张三","age":1}`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatalf("insert printed no id")
	}

	got, err := runCLI(t, "--file", file, "--table", "students", "get", id, "name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(got) != `"张三"` {
		t.Fatalf("get name = %q, want \"张三\"", got)
	}
}

func TestSetThenGetReflectsChange(t *testing.T) {
	file := filepath.Join(t.TempDir(), "students.snapshot")
	out, err := runCLI(t, "--file", file, "insert", `{"name":"张三","age":1}`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id := strings.TrimSpace(out)

	if _, err := runCLI(t, "--file", file, "set", id, "name", "李四"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := runCLI(t, "--file", file, "get", id, "name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if strings.TrimSpace(got) != `"李四"` {
		t.Fatalf("get name after set = %q, want \"李四\"", got)
	}
}

func TestAddIndexPersistsToConfigAndRebuildsOnReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "db.snapshot")
	config := filepath.Join(dir, "jsondbctl.yaml")

	if _, err := runCLI(t, "--file", file, "--config", config, "insert", `{"name":"alice"}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := runCLI(t, "--file", file, "--config", config, "add-index", "by_name", "true", "name"); err != nil {
		t.Fatalf("add-index: %v", err)
	}

	out, err := runCLI(t, "--file", file, "--config", config, "find", "by_name", "alice")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out, `"alice"`) {
		t.Fatalf("find output = %q, want it to contain alice", out)
	}
}

func TestIndexesListsRegisteredNames(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "db.snapshot")
	config := filepath.Join(dir, "jsondbctl.yaml")

	if _, err := runCLI(t, "--file", file, "--config", config, "insert", `{"name":"alice","age":30}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := runCLI(t, "--file", file, "--config", config, "add-index", "by_name", "true", "name"); err != nil {
		t.Fatalf("add-index by_name: %v", err)
	}
	if _, err := runCLI(t, "--file", file, "--config", config, "add-index", "by_age", "false", "age"); err != nil {
		t.Fatalf("add-index by_age: %v", err)
	}

	out, err := runCLI(t, "--file", file, "--config", config, "indexes")
	if err != nil {
		t.Fatalf("indexes: %v", err)
	}
	if !strings.Contains(out, "by_age") || !strings.Contains(out, "by_name") {
		t.Fatalf("indexes output = %q, want both by_age and by_name", out)
	}
}

func TestSerializeThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "db.snapshot")
	exported := filepath.Join(dir, "export.snapshot")

	if _, err := runCLI(t, "--file", file, "insert", `{"name":"a"}`, `{"name":"b"}`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := runCLI(t, "--file", file, "serialize", exported, "--compress"); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	loadedFile := filepath.Join(dir, "reloaded.snapshot")
	out, err := runCLI(t, "--file", loadedFile, "load", exported, "--compress")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(out, "2 record(s)") {
		t.Fatalf("load summary = %q, want it to mention 2 record(s)", out)
	}
}
