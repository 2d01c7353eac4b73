package value

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	opts := DefaultOptions()
	tests := []struct {
		name string
		s    Scalar
	}{
		{"null", Null()},
		{"bool true", BoolValue(true)},
		{"bool false", BoolValue(false)},
		{"int32", Int32Value(-42)},
		{"int64", Int64Value(1 << 40)},
		{"float64", Float64Value(3.5)},
		{"string plain", StringValue("hello")},
		{"string with sep", StringValue("a,b,c")},
		{"string with newline", StringValue("line1\nline2")},
		{"string with backslash", StringValue(`a\b`)},
		{"chinese string", StringValue("张三")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := Encode(tt.s, opts)
			tag := Tag(encoded[0])
			text := encoded[2:]
			got, err := Decode(tag, text, opts)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got.IsNull() != tt.s.IsNull() {
				t.Fatalf("null mismatch: got %v want %v", got.IsNull(), tt.s.IsNull())
			}
			if !tt.s.IsNull() && got.Text(opts) != tt.s.Text(opts) {
				t.Fatalf("text mismatch: got %q want %q", got.Text(opts), tt.s.Text(opts))
			}
		})
	}
}

func TestDecodeNullSentinelUnderAnyTag(t *testing.T) {
	opts := DefaultOptions()
	got, err := Decode(TagInt64, opts.NullSentinel, opts)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !got.IsNull() {
		t.Fatalf("expected null scalar")
	}
}

func TestEscapeUnescapeRoundTrip(t *testing.T) {
	inputs := []string{"", "plain", "a,b", "a\\b", "a\nb\r\nc", ",,,", "back\\,slash"}
	for _, in := range inputs {
		esc := EscapeString(in, ',')
		out := UnescapeString(esc, ',')
		if out != in {
			t.Fatalf("round trip failed: in=%q esc=%q out=%q", in, esc, out)
		}
	}
}

func TestTagValid(t *testing.T) {
	for _, tag := range []Tag{TagObject, TagString, TagInt32, TagInt64, TagFloat64, TagBool, TagObjectArray, TagValueArray} {
		if !tag.Valid() {
			t.Fatalf("tag %q should be valid", tag)
		}
	}
	if Tag('9').Valid() {
		t.Fatalf("tag '9' should be invalid")
	}
}
