package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/snapshot"
)

// NewSerializeCmd creates the serialize subcommand: writes the current
// table's snapshot to an explicit output path, independent of --file,
// optionally GZIP-wrapped (spec §4.E serialize(path, compress)).
func NewSerializeCmd() *cobra.Command {
	var compress bool
	c := &cobra.Command{
		Use:          "serialize <output-path>",
		Short:        "Write the table's snapshot to an explicit path",
		Args:         cobra.ExactArgs(1),
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
			if err := snapshot.Save(args[0], tbl.Root(), s.opts, compress); err != nil {
				return fmt.Errorf("cmd: serialize: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (compress=%v)\n", args[0], compress)
			return nil
		},
	}
	c.Flags().BoolVar(&compress, "compress", false, "GZIP-wrap the output file")
	return c
}
