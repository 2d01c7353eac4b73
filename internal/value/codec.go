// Package value implements the one-byte-tagged scalar codec described in
// the document store's value format: every primitive (null, bool, int32,
// int64, float64, string) renders as "<tag><sep><text>" and parses back
// losslessly given the same tag and separator.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag is the one-byte type discriminator written immediately before the
// field separator. The alphabet is fixed across the whole format: the same
// eight tags label both node-kind containers and primitive scalar kinds,
// because both appear as a "value kind" column in the snapshot codec.
type Tag byte

const (
	TagObject      Tag = '1'
	TagString      Tag = '2'
	TagInt32       Tag = '3'
	TagInt64       Tag = '4'
	TagFloat64     Tag = '5'
	TagBool        Tag = '6'
	TagObjectArray Tag = '7'
	TagValueArray  Tag = '8'
)

// Valid reports whether t is one of the eight fixed alphabet characters.
func (t Tag) Valid() bool {
	switch t {
	case TagObject, TagString, TagInt32, TagInt64, TagFloat64, TagBool, TagObjectArray, TagValueArray:
		return true
	default:
		return false
	}
}

// Options carries the per-caller runtime configuration for the value codec.
// These are never package globals: callers thread an Options value through
// every call that needs one, the way the document store keeps "sort",
// "binary_search", "recursive_mode", "comma", and "null_sentinel" scoped to
// the calling context instead of as ambient state.
type Options struct {
	// Sep is the reserved field separator byte, default ','.
	Sep byte
	// NullSentinel is the literal used when a value or key is absent.
	NullSentinel string
}

// DefaultOptions returns the documented defaults: comma separator, and the
// "__null__" sentinel literal.
func DefaultOptions() Options {
	return Options{Sep: ',', NullSentinel: "__null__"}
}

func (o Options) sep() byte {
	if o.Sep == 0 {
		return ','
	}
	return o.Sep
}

func (o Options) nullSentinel() string {
	if o.NullSentinel == "" {
		return "__null__"
	}
	return o.NullSentinel
}

// Scalar is a single typed primitive value: null | bool | int32 | int64 |
// float64 | string. The zero Scalar carries no valid tag and is not null;
// use Null for the null scalar.
type Scalar struct {
	tag  Tag
	null bool
	b    bool
	i32  int32
	i64  int64
	f64  float64
	s    string
}

// Null returns the null scalar. Its wire tag is TagString: the format has no
// dedicated null tag, so a null value is carried as a string payload equal
// to the configured null sentinel (see Decode).
func Null() Scalar { return Scalar{tag: TagString, null: true} }

func BoolValue(b bool) Scalar    { return Scalar{tag: TagBool, b: b} }
func Int32Value(v int32) Scalar  { return Scalar{tag: TagInt32, i32: v} }
func Int64Value(v int64) Scalar  { return Scalar{tag: TagInt64, i64: v} }
func Float64Value(v float64) Scalar {
	return Scalar{tag: TagFloat64, f64: v}
}
func StringValue(s string) Scalar { return Scalar{tag: TagString, s: s} }

func (s Scalar) Tag() Tag     { return s.tag }
func (s Scalar) IsNull() bool { return s.null }
func (s Scalar) Bool() bool   { return s.b }
func (s Scalar) Int32() int32 { return s.i32 }
func (s Scalar) Int64() int64 { return s.i64 }
func (s Scalar) Float64() float64 { return s.f64 }
func (s Scalar) String() string {
	if s.null {
		return ""
	}
	return s.s
}

// Text renders the scalar's payload text (the part after "<tag><sep>"),
// without escaping. Booleans render as "true"/"false" per spec.
func (s Scalar) Text(opts Options) string {
	if s.null {
		return opts.nullSentinel()
	}
	switch s.tag {
	case TagBool:
		if s.b {
			return "true"
		}
		return "false"
	case TagInt32:
		return strconv.FormatInt(int64(s.i32), 10)
	case TagInt64:
		return strconv.FormatInt(s.i64, 10)
	case TagFloat64:
		return strconv.FormatFloat(s.f64, 'g', -1, 64)
	case TagString:
		return s.s
	default:
		return ""
	}
}

// Encode renders a scalar as "<tag><sep><text>", escaping the separator and
// newlines out of string payloads (see EscapeString).
func Encode(s Scalar, opts Options) string {
	sep := opts.sep()
	text := s.Text(opts)
	if s.tag == TagString {
		text = EscapeString(text, sep)
	}
	return string(byte(s.tag)) + string(sep) + text
}

// Decode parses a tag and raw (possibly escaped) text back into a Scalar.
// A string payload equal to the configured null sentinel decodes to the
// null scalar, regardless of which tag carried it — a null written under
// any primitive tag must round-trip to null.
func Decode(tag Tag, text string, opts Options) (Scalar, error) {
	if !tag.Valid() {
		return Scalar{}, fmt.Errorf("value: invalid tag %q", tag)
	}
	if text == opts.nullSentinel() {
		return Null(), nil
	}
	switch tag {
	case TagBool:
		return BoolValue(text == "true"), nil
	case TagInt32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return Scalar{}, fmt.Errorf("value: decode int32 %q: %w", text, err)
		}
		return Int32Value(int32(n)), nil
	case TagInt64:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Scalar{}, fmt.Errorf("value: decode int64 %q: %w", text, err)
		}
		return Int64Value(n), nil
	case TagFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Scalar{}, fmt.Errorf("value: decode float64 %q: %w", text, err)
		}
		return Float64Value(f), nil
	case TagString:
		return StringValue(UnescapeString(text, opts.sep())), nil
	default:
		return Scalar{}, fmt.Errorf("value: tag %q is not a scalar tag", tag)
	}
}

// EscapeString implements the escaping side of the snapshot separator
// decision documented in DESIGN.md (spec §9 "Snapshot separator"): the
// reserved separator byte and any line terminator inside a string payload
// are backslash-escaped so a single line always holds exactly one record,
// even when the separator is a character (the default ',') that unescaped
// JSON text is free to contain.
func EscapeString(s string, sep byte) string {
	if !strings.ContainsAny(s, string(sep)+"\\\n\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == sep:
			b.WriteByte('\\')
			b.WriteByte('s')
		case c == '\\':
			b.WriteString(`\\`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// UnescapeString reverses EscapeString.
func UnescapeString(s string, sep byte) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(sep)
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
