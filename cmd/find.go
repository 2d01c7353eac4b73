package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsondb-go/jsondb/node"
)

func printDocs(cmd *cobra.Command, docs []*node.Node) {
	for _, d := range docs {
		fmt.Fprintln(cmd.OutOrStdout(), d.ToJSON())
	}
}

// NewFindCmd creates the find subcommand: an exact composite-key lookup
// against a named index (spec §4.E find(index_name, args)).
func NewFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "find <index> <arg>...",
		Short:        "Exact-match lookup against a named index",
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
			docs, err := tbl.Find(args[0], args[1:]...)
			if err != nil {
				return fmt.Errorf("cmd: find: %w", err)
			}
			printDocs(cmd, docs)
			return nil
		},
	}
}

// NewLeftFindCmd creates the left-find subcommand: a prefix lookup
// against a named index (spec §4.E find_family, §4.D left_find).
func NewLeftFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "left-find <index> <arg>...",
		Short:        "Prefix lookup against a named index",
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
			docs, err := tbl.LeftFind(args[0], args[1:]...)
			if err != nil {
				return fmt.Errorf("cmd: left-find: %w", err)
			}
			printDocs(cmd, docs)
			return nil
		},
	}
}

// NewRangeFindCmd creates the range-find subcommand: an inclusive
// [lo, hi] composite-key range lookup against a named index (spec §4.D
// range_find, standardized on "(lo, hi, cmp)" per §9 "Range comparator
// API").  lo and hi are each given as a single comma-separated list of
// field arguments, e.g. `range-find age --lo 12 --hi 20`.
func NewRangeFindCmd() *cobra.Command {
	var loArgs, hiArgs []string
	c := &cobra.Command{
		Use:          "range-find <index>",
		Short:        "Inclusive range lookup against a named index",
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
			docs, err := tbl.RangeFind(args[0], loArgs, hiArgs)
			if err != nil {
				return fmt.Errorf("cmd: range-find: %w", err)
			}
			printDocs(cmd, docs)
			return nil
		},
	}
	c.Flags().StringSliceVar(&loArgs, "lo", nil, "lower-bound field arguments, in declared field order")
	c.Flags().StringSliceVar(&hiArgs, "hi", nil, "upper-bound field arguments, in declared field order")
	return c
}
