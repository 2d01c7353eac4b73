package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIndexesCmd creates the indexes subcommand: lists every index
// currently registered on the table (after config-driven reconstruction).
func NewIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "indexes",
		Short:        "List the table's registered index names",
		Args:         cobra.NoArgs,
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
			for _, name := range tbl.IndexNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
