package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewAddIndexCmd creates the add-index subcommand: builds a secondary
// index and backfills it from the current table (spec §4.E add_index,
// §9 "must scan existing records"). Because the snapshot codec never
// persists indexes, the definition is also appended to --config (when
// given) so later invocations rebuild the same index automatically.
func NewAddIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "add-index <name> <unique> <field>...",
		Short:        "Add a secondary index, backfilling it from existing records",
		Args:         cobra.MinimumNArgs(3),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := resolveSettings(cmd)
			if err != nil {
				return err
			}
			unique, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("cmd: add-index: %q is not a bool: %w", args[1], err)
			}
			def := IndexDef{Name: args[0], Unique: unique, Fields: args[2:]}

			tbl, err := openTable(s)
			if err != nil {
				return err
			}
			if err := tbl.AddIndex(def.Name, def.Unique, def.Fields...); err != nil {
				return fmt.Errorf("cmd: add-index: %w", err)
			}
			if err := saveTable(tbl, s); err != nil {
				return err
			}

			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: no --config given; this index will not be rebuilt on the next run")
				return nil
			}
			return appendIndexToConfig(configPath, def)
		},
	}
}

func appendIndexToConfig(path string, def IndexDef) error {
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.Indexes = append(cfg.Indexes, def)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cmd: add-index: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cmd: add-index: writing config %s: %w", path, err)
	}
	return nil
}
