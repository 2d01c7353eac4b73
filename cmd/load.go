package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/snapshot"
	"github.com/jsondb-go/jsondb/table"
)

// NewLoadCmd creates the load subcommand: reads a snapshot from an
// explicit input path and adopts it as --file's table for subsequent
// invocations (spec §4.E load(path, compress)).
func NewLoadCmd() *cobra.Command {
	var compress bool
	c := &cobra.Command{
		Use:          "load <input-path>",
		Short:        "Load a snapshot from an explicit path and adopt it as the active table",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			root, err := snapshot.Load(args[0], s.opts, compress)
			if err != nil {
				return fmt.Errorf("cmd: load: %w", err)
			}
			tbl := table.Open(s.opts, s.table, root)
			for _, idx := range s.indexes {
				if err := tbl.AddIndex(idx.Name, idx.Unique, idx.Fields...); err != nil {
					return fmt.Errorf("cmd: load: rebuilding index %q: %w", idx.Name, err)
				}
			}
			if err := saveTable(tbl, s); err != nil {
				return err
			}
			n := 0
			if tn := tbl.TableNode(); tn != nil {
				n = len(tn.ArrayItems())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %s as table %q, %d record(s)\n", args[0], s.table, n)
			return nil
		},
	}
	c.Flags().BoolVar(&compress, "compress", false, "the input file is GZIP-wrapped")
	return c
}
