package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/table"
)

// NewGetCmd creates the get subcommand: prints the document stored under
// an id, or the sub-node at an optional path within it, as JSON (spec
// §4.E get(id), §4.B get_node(path)).
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "get <id> [path]",
		Short:        "Print a document, or a path within it, as JSON",
		Args:         cobra.RangeArgs(1, 2),
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
			doc, ok := tbl.Get(args[0])
			if !ok {
				return fmt.Errorf("%w: id %q", table.ErrNotFound, args[0])
			}
			target := doc
			if len(args) == 2 && args[1] != "" {
				res, ok := doc.GetNode(s.opts, args[1])
				if !ok {
					return fmt.Errorf("cmd: get: path %q not found", args[1])
				}
				target = res.Node
			}
			fmt.Fprintln(cmd.OutOrStdout(), target.ToJSON())
			return nil
		},
	}
}
