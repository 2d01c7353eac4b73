// Package snapshot implements the document store's line-oriented,
// depth-prefixed persistence codec: a depth-first pre-order writer and a
// parent-stack reader, both optionally wrapped in GZIP (spec §4.F).
package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/jsondb-go/jsondb/internal/jsonscan"
	"github.com/jsondb-go/jsondb/internal/value"
	"github.com/jsondb-go/jsondb/node"
)

// Save writes root's subtree to path, one line per node, depth-first
// pre-order. When compress is true the file is GZIP-wrapped at the
// fastest compression level (spec §6 "fastest compression on write").
func Save(path string, root *node.Node, opts node.Options, compress bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz, err = gzip.NewWriterLevel(f, gzip.BestSpeed)
		if err != nil {
			return fmt.Errorf("snapshot: gzip writer: %w", err)
		}
		w = gz
	}

	bw := bufio.NewWriter(w)
	if err := writeNode(bw, root, 0, opts); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("snapshot: flush: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("snapshot: gzip close: %w", err)
		}
	}
	return nil
}

// Load reads a snapshot previously written by Save and reconstructs its
// tree. The sort option is forced off, on a copy of opts, during
// reconstruction so the file's own insertion order is preserved; the
// caller's opts value is left unchanged (spec §4.F).
func Load(path string, opts node.Options, compress bool) (*node.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if compress {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("snapshot: gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	loadOpts := opts
	loadOpts.Sort = false
	return readTree(r, loadOpts)
}

func sep(opts node.Options) byte {
	if opts.Value.Sep == 0 {
		return ','
	}
	return opts.Value.Sep
}

func nullSentinel(opts node.Options) string {
	if opts.Value.NullSentinel == "" {
		return "__null__"
	}
	return opts.Value.NullSentinel
}

func writeNode(w *bufio.Writer, n *node.Node, depth int, opts node.Options) error {
	s := sep(opts)
	key := nullSentinel(opts)
	if n.HasKey() {
		key = value.EscapeString(n.Key(), s)
	}

	switch n.Kind() {
	case node.KindScalar:
		sc := n.Scalar()
		text := sc.Text(opts.Value)
		if sc.Tag() == value.TagString {
			text = value.EscapeString(text, s)
		}
		if _, err := fmt.Fprintf(w, "%d%c%d%c%s%c%c%c%s\n", depth, s, int(n.Kind()), s, key, s, byte(sc.Tag()), s, text); err != nil {
			return err
		}

	case node.KindObject:
		if _, err := fmt.Fprintf(w, "%d%c%d%c%s\n", depth, s, int(n.Kind()), s, key); err != nil {
			return err
		}
		for _, c := range n.Children() {
			if err := writeNode(w, c, depth+1, opts); err != nil {
				return err
			}
		}

	case node.KindObjectArray:
		if _, err := fmt.Fprintf(w, "%d%c%d%c%s\n", depth, s, int(n.Kind()), s, key); err != nil {
			return err
		}
		for _, c := range n.ArrayItems() {
			if err := writeNode(w, c, depth+1, opts); err != nil {
				return err
			}
		}

	case node.KindValueArray:
		var b strings.Builder
		fmt.Fprintf(&b, "%d%c%d%c%s", depth, s, int(n.Kind()), s, key)
		if tag, ok := n.ArrayElementTag(); ok {
			b.WriteByte(s)
			b.WriteByte(byte(tag))
			for _, v := range n.ArrayValues() {
				text := v.Text(opts.Value)
				if tag == value.TagString {
					text = value.EscapeString(text, s)
				}
				b.WriteByte(s)
				b.WriteString(text)
			}
		}
		b.WriteByte('\n')
		if _, err := w.WriteString(b.String()); err != nil {
			return err
		}

	case node.KindLazyObject, node.KindLazyArray:
		raw := value.EscapeString(n.ToJSON(), s)
		if _, err := fmt.Fprintf(w, "%d%c%d%c%s%c%c%c%s\n", depth, s, int(n.Kind()), s, key, s, byte(value.TagString), s, raw); err != nil {
			return err
		}
	}
	return nil
}

// readTree implements the parent-stack reconstruction from spec §4.F: a
// line's depth tells the reader how far to pop the stack of currently-open
// containers before attaching the new node to whatever remains on top.
func readTree(r io.Reader, opts node.Options) (*node.Node, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var stack []*node.Node
	var root *node.Node
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		n, depth, isContainer, err := parseLine(line, opts)
		if err != nil {
			return nil, fmt.Errorf("snapshot: line %d: %w", lineNo, err)
		}
		if depth > len(stack) {
			return nil, fmt.Errorf("snapshot: line %d: depth %d has no open parent", lineNo, depth)
		}
		stack = stack[:depth]

		if depth == 0 {
			root = n
		} else {
			parent := stack[len(stack)-1]
			if err := attach(opts, parent, n); err != nil {
				return nil, fmt.Errorf("snapshot: line %d: %w", lineNo, err)
			}
		}
		if isContainer {
			stack = append(stack, n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	if root == nil {
		return nil, fmt.Errorf("snapshot: empty snapshot")
	}
	return root, nil
}

func attach(opts node.Options, parent, child *node.Node) error {
	switch parent.Kind() {
	case node.KindObject:
		return parent.AdoptChild(opts, child)
	case node.KindObjectArray:
		return parent.AddNode(opts, child)
	default:
		return fmt.Errorf("cannot attach to a %s container", parent.Kind())
	}
}

func parseLine(line string, opts node.Options) (n *node.Node, depth int, isContainer bool, err error) {
	s := sep(opts)
	cols := splitUnescaped(line, s)
	if len(cols) < 3 {
		return nil, 0, false, fmt.Errorf("malformed line: expected at least 3 columns, got %d", len(cols))
	}
	depth, err = strconv.Atoi(cols[0])
	if err != nil {
		return nil, 0, false, fmt.Errorf("bad depth %q: %w", cols[0], err)
	}
	kindInt, err := strconv.Atoi(cols[1])
	if err != nil {
		return nil, 0, false, fmt.Errorf("bad kind %q: %w", cols[1], err)
	}
	kind := node.Kind(kindInt)

	var key string
	hasKey := cols[2] != nullSentinel(opts)
	if hasKey {
		key = value.UnescapeString(cols[2], s)
	}

	switch kind {
	case node.KindScalar:
		if len(cols) < 5 {
			return nil, 0, false, fmt.Errorf("malformed scalar line")
		}
		sc, err := value.Decode(value.Tag(cols[3][0]), value.UnescapeString(cols[4], s), opts.Value)
		if err != nil {
			return nil, 0, false, err
		}
		n = node.NewScalar(key, sc)
		return n, depth, false, nil

	case node.KindObject:
		n = node.NewObject(key)
		return n, depth, true, nil

	case node.KindObjectArray:
		n = node.NewObjectArray(key)
		return n, depth, true, nil

	case node.KindValueArray:
		n = node.NewValueArray(key)
		if len(cols) > 3 {
			tag := value.Tag(cols[3][0])
			for _, raw := range cols[4:] {
				sc, err := value.Decode(tag, value.UnescapeString(raw, s), opts.Value)
				if err != nil {
					return nil, 0, false, err
				}
				if err := n.AddScalar(opts, sc); err != nil {
					return nil, 0, false, err
				}
			}
		}
		return n, depth, false, nil

	case node.KindLazyObject, node.KindLazyArray:
		if len(cols) < 5 {
			return nil, 0, false, fmt.Errorf("malformed lazy line")
		}
		raw := value.UnescapeString(cols[4], s)
		el, err := jsonscan.Parse(raw)
		if err != nil {
			return nil, 0, false, fmt.Errorf("lazy payload: %w", err)
		}
		if kind == node.KindLazyObject {
			n = node.NewLazyObject(key, el)
		} else {
			n = node.NewLazyArray(key, el)
		}
		return n, depth, false, nil

	default:
		return nil, 0, false, fmt.Errorf("unknown kind %d", kindInt)
	}
}

// splitUnescaped splits line on sep, ignoring a sep byte immediately
// preceded by a backslash (so an escaped separator inside a field survives
// into that field's raw text for UnescapeString to resolve).
func splitUnescaped(line string, sep byte) []string {
	var cols []string
	var cur strings.Builder
	escaped := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			cur.WriteByte(c)
			escaped = false
		case c == '\\':
			cur.WriteByte(c)
			escaped = true
		case c == sep:
			cols = append(cols, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	cols = append(cols, cur.String())
	return cols
}
