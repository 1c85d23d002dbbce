// Package config loads application configuration from YAML, mirroring the
// teacher's internal/config package: one root Config assembled from
// defaults, overlaid by a YAML file, then validated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viewv/smartcommitcore/internal/engine"
	"github.com/viewv/smartcommitcore/internal/store"
)

// Config holds all application configuration for the smartcommit server
// and CLI entrypoints.
type Config struct {
	Server   ServerConfig  `yaml:"server"`
	Database store.Config  `yaml:"database"`
	Source   SourceConfig  `yaml:"source"`
	Engine   engine.Config `yaml:"engine"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourceConfig holds the change source's repository settings, grounded on
// the teacher's git.Config (internal/git/config.go) but scoped to reading
// an already-checked-out local working tree rather than cloning one.
type SourceConfig struct {
	RepoPath     string `yaml:"repo_path"`
	BaseRevision string `yaml:"base_revision"`
}

// DefaultConfig returns configuration with sensible defaults for local
// development, mirroring the teacher's config.DefaultConfig.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: store.DefaultConfig(),
		Source: SourceConfig{
			RepoPath:     ".",
			BaseRevision: "HEAD",
		},
		Engine: engine.DefaultConfig(),
	}
}

// LoadFromYAML loads configuration from a YAML file, overlaying it on top
// of DefaultConfig, then validates the result.
func LoadFromYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is controlled by the operator
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromYAMLOrDefault loads config from a YAML file, or returns
// DefaultConfig if the file does not exist.
func LoadFromYAMLOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadFromYAML(path)
}

// Validate checks that every sub-config is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port: %d", c.Server.Port)
	}
	if c.Source.RepoPath == "" {
		return fmt.Errorf("config: source repo_path is required")
	}
	if c.Source.BaseRevision == "" {
		return fmt.Errorf("config: source base_revision is required")
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("config: engine config invalid: %w", err)
	}
	return nil
}
