package bptree

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestInsertFindOverwrite(t *testing.T) {
	tr := New(4)
	if err := tr.Insert("b", 2); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert("a", 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tr.Insert("a", 10); err != nil {
		t.Fatalf("Insert overwrite: %v", err)
	}
	v, ok := tr.Find("a")
	if !ok || v.(int) != 10 {
		t.Fatalf("Find(a) = %v, %v, want 10, true", v, ok)
	}
	if _, ok := tr.Find("z"); ok {
		t.Fatalf("Find(z) unexpectedly found")
	}
}

func TestInsertRejectsEmptyKey(t *testing.T) {
	tr := New(4)
	if err := tr.Insert("", 1); err == nil {
		t.Fatalf("expected error inserting empty key")
	}
}

func TestSplitsKeepEveryKeyFindable(t *testing.T) {
	tr := New(4)
	keys := []string{"e", "c", "a", "d", "b", "g", "f"}
	for i, k := range keys {
		if err := tr.Insert(k, i); err != nil {
			t.Fatalf("Insert(%s): %v", k, err)
		}
	}
	for i, k := range keys {
		v, ok := tr.Find(k)
		if !ok || v.(int) != i {
			t.Fatalf("Find(%s) = %v, %v, want %d, true", k, v, ok, i)
		}
	}
}

func TestLeftFindPrefix(t *testing.T) {
	tr := New(4)
	entries := []string{"zhang,1", "zhang,2", "zhangfeng,1", "zhao,1"}
	for i, k := range entries {
		if err := tr.Insert(k, i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got := tr.LeftFind("zhang,")
	if len(got) != 2 {
		t.Fatalf("LeftFind(zhang,) returned %d values, want 2: %v", len(got), got)
	}
}

func TestRangeFindInclusive(t *testing.T) {
	tr := New(4)
	for i := 1; i <= 10; i++ {
		if err := tr.Insert(fmt.Sprintf("k%02d", i), i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got := tr.RangeFind("k03", "k07")
	if len(got) != 5 {
		t.Fatalf("RangeFind(k03,k07) returned %d values, want 5: %v", len(got), got)
	}
	for i, v := range got {
		if v.(int) != i+3 {
			t.Fatalf("RangeFind order mismatch at %d: got %v", i, v)
		}
	}
}

func TestRemoveThenFindFails(t *testing.T) {
	tr := New(4)
	for i := 1; i <= 20; i++ {
		if err := tr.Insert(fmt.Sprintf("k%02d", i), i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	for i := 1; i <= 20; i += 2 {
		if !tr.Remove(fmt.Sprintf("k%02d", i)) {
			t.Fatalf("Remove(k%02d) reported not found", i)
		}
	}
	for i := 1; i <= 20; i++ {
		k := fmt.Sprintf("k%02d", i)
		_, ok := tr.Find(k)
		if i%2 == 1 && ok {
			t.Fatalf("Find(%s) still present after removal", k)
		}
		if i%2 == 0 && !ok {
			t.Fatalf("Find(%s) missing after unrelated removals", k)
		}
	}
	if tr.Len() != 10 {
		t.Fatalf("Len() = %d, want 10", tr.Len())
	}
}

// TestLargeInsertRemoveReinsert exercises repeated split/merge under a
// deterministic RNG seed: insert 1..1000, remove a random half, reinsert
// them, and confirm every key resolves to its last-written value.
func TestLargeInsertRemoveReinsert(t *testing.T) {
	tr := New(4)
	const n = 1000
	for i := 0; i < n; i++ {
		if err := tr.Insert(fmt.Sprintf("k%04d", i), i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	rng := rand.New(rand.NewSource(42))
	removed := make(map[int]bool)
	perm := rng.Perm(n)
	for _, i := range perm[:n/2] {
		k := fmt.Sprintf("k%04d", i)
		if !tr.Remove(k) {
			t.Fatalf("Remove(%s) reported not found", k)
		}
		removed[i] = true
	}

	for i := range removed {
		k := fmt.Sprintf("k%04d", i)
		if err := tr.Insert(k, i*1000); err != nil {
			t.Fatalf("Insert(%s): %v", k, err)
		}
	}

	for i := 0; i < n; i++ {
		k := fmt.Sprintf("k%04d", i)
		v, ok := tr.Find(k)
		if !ok {
			t.Fatalf("Find(%s) missing", k)
		}
		want := i
		if removed[i] {
			want = i * 1000
		}
		if v.(int) != want {
			t.Fatalf("Find(%s) = %v, want %d", k, v, want)
		}
	}
	if tr.Len() != n {
		t.Fatalf("Len() = %d, want %d", tr.Len(), n)
	}
}

// TestLeafChainStaysOrdered walks the tree's linked leaves directly (via
// LeftFind with an empty prefix, which matches everything) to confirm
// ascending order is preserved across many splits.
func TestLeafChainStaysOrdered(t *testing.T) {
	tr := New(6)
	for i := 99; i >= 0; i-- {
		if err := tr.Insert(fmt.Sprintf("k%03d", i), i); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	got := tr.LeftFind("")
	if len(got) != 100 {
		t.Fatalf("LeftFind(\"\") returned %d values, want 100", len(got))
	}
	for i, v := range got {
		if v.(int) != i {
			t.Fatalf("order broken at position %d: got %v", i, v)
		}
	}
}
