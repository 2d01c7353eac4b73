package jsonscan

import "testing"

func TestParsePrimitives(t *testing.T) {
	cases := map[string]Kind{
		`null`:   KindNull,
		`true`:   KindBool,
		`false`:  KindBool,
		`42`:     KindInt64,
		`-7`:     KindInt64,
		`3.14`:   KindDouble,
		`1e10`:   KindDouble,
		`"hi"`:   KindString,
		`{}`:     KindObject,
		`[]`:     KindArray,
	}
	for src, want := range cases {
		el, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		if el.Kind() != want {
			t.Fatalf("Parse(%q).Kind() = %v, want %v", src, el.Kind(), want)
		}
		if el.RawText() != src {
			t.Fatalf("RawText() = %q, want %q", el.RawText(), src)
		}
	}
}

func TestParseObjectOrderAndNesting(t *testing.T) {
	el, err := Parse(`{"name":"张三","age":1,"address":{"city":"beijing"},"tags":["a","b"]}`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if el.Kind() != KindObject {
		t.Fatalf("kind = %v", el.Kind())
	}
	members := el.Members()
	if len(members) != 4 {
		t.Fatalf("len(members) = %d", len(members))
	}
	if members[0].Key != "name" || members[0].Value.Str() != "张三" {
		t.Fatalf("member 0 = %+v", members[0])
	}
	age := el.Get("age")
	if age == nil || age.Kind() != KindInt64 || age.Int64() != 1 {
		t.Fatalf("age = %+v", age)
	}
	addr := el.Get("address")
	if addr == nil || addr.Kind() != KindObject || addr.Get("city").Str() != "beijing" {
		t.Fatalf("address = %+v", addr)
	}
	tags := el.Get("tags")
	if tags == nil || tags.Kind() != KindArray || tags.Len() != 2 || tags.Index(0).Str() != "a" {
		t.Fatalf("tags = %+v", tags)
	}
}

func TestParseStringEscapes(t *testing.T) {
	el, err := Parse(`"a\nb\tcé\\d"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "a\nb\tcé\\d"
	if el.Str() != want {
		t.Fatalf("Str() = %q, want %q", el.Str(), want)
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	if _, err := Parse(`{} garbage`); err == nil {
		t.Fatalf("expected error for trailing data")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, src := range []string{`{`, `[1,2`, `{"a":}`, `nul`, `"unterminated`} {
		if _, err := Parse(src); err == nil {
			t.Fatalf("expected error parsing %q", src)
		}
	}
}
