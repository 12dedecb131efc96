// Package config reads and writes the workspace bankfeed.yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "bankfeed.yaml"

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Import    ImportConfig    `yaml:"import"`
}

// WorkspaceConfig identifies the workspace.
type WorkspaceConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig tunes the import pipeline.
type ImportConfig struct {
	// FallbackAccount receives rows whose account reference cannot be
	// resolved during a per-row ("general") import. Empty means such rows
	// are rejected instead.
	FallbackAccount string `yaml:"fallback_account,omitempty"`

	// TransferWindowMinutes is the maximum timestamp distance between the
	// two halves of a transfer pair.
	TransferWindowMinutes int `yaml:"transfer_window_minutes"`

	// SkipSameAccount excludes transfer pairs within a single account.
	SkipSameAccount bool `yaml:"skip_same_account"`
}

// TransferWindow returns the configured window as a duration.
func (c ImportConfig) TransferWindow() time.Duration {
	if c.TransferWindowMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.TransferWindowMinutes) * time.Minute
}

// Load reads a bankfeed.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name string) *Config {
	return &Config{
		Workspace: WorkspaceConfig{Name: name},
		Import: ImportConfig{
			TransferWindowMinutes: 5,
			SkipSameAccount:       false,
		},
	}
}
