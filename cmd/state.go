package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/internal/value"
	"github.com/jsondb-go/jsondb/node"
	"github.com/jsondb-go/jsondb/snapshot"
	"github.com/jsondb-go/jsondb/table"
)

// settings is the fully-resolved set of per-invocation knobs: config file
// values with command-line flags taking precedence, mirroring the
// teacher's "--project flag wins, else derive a default" pattern in
// resolveBinderPathFromCmd.
type settings struct {
	file     string
	table    string
	compress bool
	opts     node.Options
	indexes  []IndexDef
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return settings{}, err
	}

	file, _ := cmd.Flags().GetString("file")
	if file == "" {
		file = cfg.File
	}
	if file == "" {
		file = "jsondb.snapshot"
	}

	tableName, _ := cmd.Flags().GetString("table")
	if tableName == "" {
		tableName = cfg.Table
	}
	if tableName == "" {
		tableName = "records"
	}

	compress, _ := cmd.Flags().GetBool("compress")
	if !cmd.Flags().Changed("compress") {
		compress = cfg.Compress
	}

	sep, _ := cmd.Flags().GetString("sep")
	if sep == "" {
		sep = cfg.Sep
	}
	nullSentinel, _ := cmd.Flags().GetString("null-sentinel")
	if nullSentinel == "" {
		nullSentinel = cfg.NullSentinel
	}

	opts := node.DefaultOptions()
	if sep != "" {
		opts.Value.Sep = sep[0]
	}
	if nullSentinel != "" {
		opts.Value.NullSentinel = nullSentinel
	}

	return settings{
		file:     file,
		table:    tableName,
		compress: compress,
		opts:     opts,
		indexes:  cfg.Indexes,
	}, nil
}

// openTable loads the snapshot file at s.file if it exists, reconstructing
// a Table around its root (spec §4.F reader), or starts a fresh Table when
// no snapshot exists yet. Every configured index is then (re)built —
// AddIndex backfills from whatever records are already present, so this is
// safe whether the table is fresh or reloaded (spec §9 "add_index must
// scan existing records").
func openTable(s settings) (*table.Table, error) {
	var tbl *table.Table
	if _, err := os.Stat(s.file); err == nil {
		root, err := snapshot.Load(s.file, s.opts, s.compress)
		if err != nil {
			return nil, fmt.Errorf("cmd: loading %s: %w", s.file, err)
		}
		tbl = table.Open(s.opts, s.table, root)
	} else if os.IsNotExist(err) {
		tbl = table.New(s.opts, s.table)
	} else {
		return nil, fmt.Errorf("cmd: statting %s: %w", s.file, err)
	}

	for _, idx := range s.indexes {
		if err := tbl.AddIndex(idx.Name, idx.Unique, idx.Fields...); err != nil {
			return nil, fmt.Errorf("cmd: rebuilding index %q: %w", idx.Name, err)
		}
	}
	return tbl, nil
}

// saveTable persists tbl's root back to s.file, the counterpart to
// openTable (spec §4.F writer).
func saveTable(tbl *table.Table, s settings) error {
	if err := snapshot.Save(s.file, tbl.Root(), s.opts, s.compress); err != nil {
		return fmt.Errorf("cmd: saving %s: %w", s.file, err)
	}
	return nil
}

// parseScalarArg interprets a bare command-line argument as a Scalar:
// "null" is the null scalar, "true"/"false" are bools, anything that
// parses as an integer or float becomes numeric, everything else is a
// string. This is a CLI convenience layer only — the core library never
// guesses types (spec §4.A tags are explicit).
func parseScalarArg(s string) value.Scalar {
	switch s {
	case "null":
		return value.Null()
	case "true":
		return value.BoolValue(true)
	case "false":
		return value.BoolValue(false)
	}
	if iv, err := strconv.ParseInt(s, 10, 64); err == nil {
		return value.Int64Value(iv)
	}
	if fv, err := strconv.ParseFloat(s, 64); err == nil {
		return value.Float64Value(fv)
	}
	return value.StringValue(s)
}
