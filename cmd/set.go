package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCmd creates the set subcommand: overwrites the scalar at path
// within a document, re-indexing it afterward (spec §4.E set<T>).
func NewSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "set <id> <path> <value>",
		Short:        "Set a scalar value at a path within a document",
		Args:         cobra.ExactArgs(3),
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
			id, path, raw := args[0], args[1], args[2]
			if err := tbl.SetScalar(id, path, parseScalarArg(raw)); err != nil {
				return fmt.Errorf("cmd: set: %w", err)
			}
			return saveTable(tbl, s)
		},
	}
}
