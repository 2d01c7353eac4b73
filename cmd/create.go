package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/table"
)

// NewCreateCmd creates the create subcommand: initializes an empty table
// and writes its (empty) snapshot, the CLI-visible counterpart of
// Table.create(name) (spec §4.E).
func NewCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "create",
		Short:        "Create a new, empty table and write its snapshot",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			tbl := table.New(s.opts, s.table)
			for _, idx := range s.indexes {
				if err := tbl.AddIndex(idx.Name, idx.Unique, idx.Fields...); err != nil {
					return fmt.Errorf("cmd: create: adding index %q: %w", idx.Name, err)
				}
			}
			if err := saveTable(tbl, s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created table %q at %s\n", s.table, s.file)
			return nil
		},
	}
}
