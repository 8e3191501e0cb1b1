// Package config handles loading optimiser configuration from files.
//
// Configuration can be specified in a JSON file named yulopt.json or
// .yuloptrc, or in a YAML file named yulopt.yaml or yulopt.yml. The config
// file is searched for in the current directory and parent directories.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"codeberg.org/saruga/yulopt/internal/optimizer"
)

// Config represents the configuration file structure.
// All fields are optional and will use default values if not specified.
type Config struct {
	// Steps is the step sequence to run (default: disambiguator, varDeclPropagator)
	Steps []string `json:"steps,omitempty" yaml:"steps,omitempty"`

	// MinifyWhitespace removes unnecessary whitespace and newlines
	MinifyWhitespace *bool `json:"minifyWhitespace,omitempty" yaml:"minifyWhitespace,omitempty"`

	// KeepNames lists names the disambiguator must never generate
	KeepNames []string `json:"keepNames,omitempty" yaml:"keepNames,omitempty"`
}

// ConfigFileNames are the names searched for config files, in order of preference.
var ConfigFileNames = []string{
	"yulopt.json",
	".yuloptrc",
	"yulopt.yaml",
	"yulopt.yml",
}

// Load searches for a config file starting from the given directory
// and walking up to parent directories. Returns nil if no config file is found.
func Load(startDir string) (*Config, string, error) {
	dir := startDir
	for {
		for _, name := range ConfigFileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := LoadFile(path)
				return cfg, path, err
			}
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, no config found
			return nil, "", nil
		}
		dir = parent
	}
}

// LoadFile loads configuration from a specific file path. Files ending in
// .yaml or .yml are YAML; everything else is JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	var cfg Config
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}

	return &cfg, nil
}

// ToOptions converts a Config to optimizer.Options, using defaults for unset fields.
func (c *Config) ToOptions() optimizer.Options {
	opts := optimizer.DefaultOptions()

	if c.Steps != nil {
		opts.Steps = c.Steps
	}
	if c.MinifyWhitespace != nil {
		opts.MinifyWhitespace = *c.MinifyWhitespace
	}
	if len(c.KeepNames) > 0 {
		opts.KeepNames = c.KeepNames
	}

	return opts
}

// MergeOptions holds options given on the command line.
type MergeOptions struct {
	// CLI flags (nil means not specified on CLI)
	Steps            []string
	MinifyWhitespace *bool
	KeepNames        []string
}

// Merge merges CLI options with config file options.
// CLI options override config file options when specified.
func (c *Config) Merge(cli MergeOptions) optimizer.Options {
	opts := c.ToOptions()

	// CLI overrides
	if cli.Steps != nil {
		opts.Steps = cli.Steps
	}
	if cli.MinifyWhitespace != nil {
		opts.MinifyWhitespace = *cli.MinifyWhitespace
	}
	if len(cli.KeepNames) > 0 {
		// Append CLI keep names to config keep names
		opts.KeepNames = append(append([]string(nil), opts.KeepNames...), cli.KeepNames...)
	}

	return opts
}
