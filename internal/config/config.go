// Package config loads the optional YAML configuration file for
// cmd/v4apatch. The patch engine itself (internal/patch) takes no
// configuration of its own; everything here governs CLI presentation and
// the sandboxing the CLI applies before handing bytes to the engine.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root of the optional -config YAML document.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Color ColorConfig `yaml:"color"`
	Read  ReadConfig  `yaml:"read"`
}

// LogConfig controls internal/cliutil.Logger construction.
type LogConfig struct {
	// Level is "info" or "debug"; anything else is treated as "info".
	Level string `yaml:"level"`
	// Development selects the human-readable console encoder instead of
	// JSON.
	Development bool `yaml:"development"`
}

// ColorConfig controls fatih/color usage in cmd/v4apatch.
type ColorConfig struct {
	Disabled bool `yaml:"disabled"`
}

// ReadConfig bounds what the CLI will read from disk before handing it to
// the engine, a sandboxing concern the pure engine is agnostic to.
type ReadConfig struct {
	// MaxFileSizeKB rejects any source file larger than this before it is
	// passed to ProcessPatch. Zero means the built-in default applies.
	MaxFileSizeKB int `yaml:"max_file_size_kb"`
}

const defaultMaxFileSizeKB = 4096

// Default returns the configuration used when no -config flag is given.
func Default() *Config {
	return &Config{
		Read: ReadConfig{MaxFileSizeKB: defaultMaxFileSizeKB},
	}
}

// Load reads and parses path, applying defaults the way
// kvit-s-kvit-coder/internal/config.Load does: unmarshal first, then fill
// in zero-valued fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	cfg.Read.MaxFileSizeKB = 0 // let unmarshal win before we reapply the default
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Read.MaxFileSizeKB == 0 {
		cfg.Read.MaxFileSizeKB = defaultMaxFileSizeKB
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// MaxFileSizeBytes is MaxFileSizeKB converted to a byte ceiling.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Read.MaxFileSizeKB) * 1024
}

// Debug reports whether the configured log level requests debug output.
func (c *Config) Debug() bool {
	return c.Log.Level == "debug"
}
