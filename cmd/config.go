// Package cmd implements the jsondbctl CLI commands: a thin Cobra front
// end over the table/index/snapshot/predicate packages, in the image of
// the teacher's own cmd package (cobra.Command constructors taking an
// injected IO/options struct, RunE writing through cmd.OutOrStdout()).
package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// IndexDef describes one secondary index to (re)build on every command
// invocation, since the snapshot codec persists the node tree only, never
// the B+ tree indexes layered on top of it (spec §4.F).
type IndexDef struct {
	Name   string   `yaml:"name"`
	Unique bool     `yaml:"unique"`
	Fields []string `yaml:"fields"`
}

// Config is the optional --config YAML file: default snapshot location,
// value-codec knobs, and the set of indexes every invocation should
// reconstruct before running its command. This is the CLI's only ambient
// configuration surface; the core library never reads files or globals
// (spec §5/§6, AMBIENT STACK "Configuration").
type Config struct {
	File         string     `yaml:"file"`
	Table        string     `yaml:"table"`
	Compress     bool       `yaml:"compress"`
	Sep          string     `yaml:"sep"`
	NullSentinel string     `yaml:"null_sentinel"`
	Indexes      []IndexDef `yaml:"indexes"`
}

// LoadConfig reads and parses a YAML config file. A missing path is not an
// error; it yields the zero Config so callers can fall back to flag
// defaults.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("cmd: reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("cmd: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
