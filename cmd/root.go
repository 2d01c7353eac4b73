package cmd

import "github.com/spf13/cobra"

// NewRootCmd creates the root jsondbctl command with all subcommands
// registered, in the same shape as the teacher's NewRootCmd: a bare
// RunE that prints help, persistent flags shared by every subcommand,
// SilenceErrors so Cobra doesn't double-print errors main.go already
// reports.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jsondbctl",
		Short:         "jsondbctl - inspect and mutate a jsondb snapshot file",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
	}

	pf := root.PersistentFlags()
	pf.String("file", "", "snapshot file path (default jsondb.snapshot, or Config.File)")
	pf.String("table", "", "table name (default records, or Config.Table)")
	pf.Bool("compress", false, "GZIP-wrap the snapshot file")
	pf.String("sep", "", "value codec separator byte (default ,)")
	pf.String("null-sentinel", "", "value codec null sentinel literal (default __null__)")
	pf.String("config", "", "path to a jsondbctl YAML config file")

	root.AddCommand(NewCreateCmd())
	root.AddCommand(NewInsertCmd())
	root.AddCommand(NewGetCmd())
	root.AddCommand(NewSetCmd())
	root.AddCommand(NewAddIndexCmd())
	root.AddCommand(NewIndexesCmd())
	root.AddCommand(NewFindCmd())
	root.AddCommand(NewLeftFindCmd())
	root.AddCommand(NewRangeFindCmd())
	root.AddCommand(NewSerializeCmd())
	root.AddCommand(NewLoadCmd())
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
