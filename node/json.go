package node

import (
	"strconv"
	"strings"

	"github.com/jsondb-go/jsondb/internal/value"
)

// ToJSON renders the node's subtree as canonical JSON text. Lazy subtrees
// are emitted from their stored raw text (whitespace-compacted) rather than
// being materialized, so a read-only render never pays the materialization
// cost (spec §4.B "lazy" / §9 design notes).
func (n *Node) ToJSON() string {
	var b strings.Builder
	n.writeJSON(&b)
	return b.String()
}

func (n *Node) writeJSON(b *strings.Builder) {
	switch n.kind {
	case KindScalar:
		writeScalarJSON(b, n.scalar)

	case KindObject:
		b.WriteByte('{')
		for i, c := range n.children {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, c.Key())
			b.WriteByte(':')
			c.writeJSON(b)
		}
		b.WriteByte('}')

	case KindValueArray:
		b.WriteByte('[')
		for i, v := range n.arrayValues {
			if i > 0 {
				b.WriteByte(',')
			}
			writeScalarJSON(b, v)
		}
		b.WriteByte(']')

	case KindObjectArray:
		b.WriteByte('[')
		for i, item := range n.arrayItems {
			if i > 0 {
				b.WriteByte(',')
			}
			item.writeJSON(b)
		}
		b.WriteByte(']')

	case KindLazyObject, KindLazyArray:
		writeCompactRaw(b, n.lazy.RawText())
	}
}

func writeScalarJSON(b *strings.Builder, s value.Scalar) {
	if s.IsNull() {
		b.WriteString("null")
		return
	}
	switch s.Tag() {
	case value.TagString:
		writeJSONString(b, s.String())
	case value.TagBool:
		if s.Bool() {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.TagInt32:
		b.WriteString(strconv.FormatInt(int64(s.Int32()), 10))
	case value.TagInt64:
		b.WriteString(strconv.FormatInt(s.Int64(), 10))
	case value.TagFloat64:
		b.WriteString(strconv.FormatFloat(s.Float64(), 'g', -1, 64))
	default:
		b.WriteString("null")
	}
}

// writeJSONString escapes s per the JSON grammar: backslash, quote, and the
// control characters.
func writeJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				const hexDigits = "0123456789abcdef"
				b.WriteString(`\u00`)
				b.WriteByte(hexDigits[r>>4])
				b.WriteByte(hexDigits[r&0xF])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
}

// writeCompactRaw emits raw already-valid JSON text with insignificant
// whitespace outside of string literals stripped.
func writeCompactRaw(b *strings.Builder, raw string) {
	inString := false
	escaped := false
	for _, r := range raw {
		if inString {
			b.WriteRune(r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}
		switch r {
		case ' ', '\t', '\n', '\r':
			continue
		case '"':
			inString = true
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
}
