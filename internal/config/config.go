// Package config loads an optional TOML file overriding the simulator's
// default memory region bounds. Absence of the file is not an error:
// LoadFrom falls back to the built-in text/data layout from spec.md §3.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/bassosimone/riscsim/internal/memory"
)

// Config is the on-disk shape of riscsim.toml.
type Config struct {
	Memory struct {
		TextBegin uint32 `toml:"text_begin"`
		TextEnd   uint32 `toml:"text_end"`
		DataBegin uint32 `toml:"data_begin"`
		DataEnd   uint32 `toml:"data_end"`
	} `toml:"memory"`
}

// Default returns the built-in region layout as a Config, matching
// spec.md §3's region table.
func Default() *Config {
	cfg := &Config{}
	cfg.Memory.TextBegin = memory.TextBegin
	cfg.Memory.TextEnd = memory.TextEnd
	cfg.Memory.DataBegin = memory.DataBegin
	cfg.Memory.DataEnd = memory.DataEnd
	return cfg
}

// LoadFrom reads path as TOML and overrides the default region layout
// with whatever it finds. A missing file is not an error: the default
// layout is returned unchanged.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// Regions converts the configured bounds into the region list
// NewMapFromRegions expects.
func (c *Config) Regions() []memory.Region {
	return []memory.Region{
		{Name: "text", Begin: c.Memory.TextBegin, End: c.Memory.TextEnd},
		{Name: "data", Begin: c.Memory.DataBegin, End: c.Memory.DataEnd},
	}
}
