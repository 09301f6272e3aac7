// Package config loads oil.yaml, the toolchain's project configuration
// file: a typed struct with yaml tags and a Load function falling back
// to documented defaults when the file is absent.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GCConfig mirrors gc.Settings' tunables so they can be overridden per
// project without recompiling.
type GCConfig struct {
	Threshold     int  `yaml:"threshold"`
	ThresholdGrow int  `yaml:"threshold_grow_factor"`
	Debug         bool `yaml:"debug"`
}

// Config is the root shape of oil.yaml.
type Config struct {
	Module  string   `yaml:"module"`
	Imports []string `yaml:"imports"`
	GC      GCConfig `yaml:"gc"`
}

// Default returns the configuration used when no oil.yaml is present:
// gc.DefaultSettings' threshold/grow-factor, debug logging off.
func Default() *Config {
	return &Config{
		GC: GCConfig{Threshold: 2048, ThresholdGrow: 2, Debug: false},
	}
}

// Load reads and parses oil.yaml at path. A missing file is not an
// error: it returns Default() instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}
	if cfg.GC.Threshold <= 0 {
		cfg.GC.Threshold = 2048
	}
	if cfg.GC.ThresholdGrow <= 0 {
		cfg.GC.ThresholdGrow = 2
	}
	return cfg, nil
}
