package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInsertCmd creates the insert subcommand: parses each argument as a
// JSON object document and appends it to the table, printing the
// generated "_id" for each (spec §4.E insert(json)).
func NewInsertCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "insert <json>...",
		Short:        "Insert one or more JSON object documents",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			tbl, err := openTable(s)
			if err != nil {
				return err
			}
			for _, jsonText := range args {
				_, id, err := tbl.Insert(jsonText)
				if err != nil {
					return fmt.Errorf("cmd: insert: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return saveTable(tbl, s)
		},
	}
}
