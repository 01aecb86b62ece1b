// Package config provides configuration management for Archimap.
//
// Config file locations (priority order):
//  1. $ARCHIMAP_CONFIG
//  2. ./archimap.yaml
//  3. ~/.config/archimap/config.yaml
//  4. /etc/archimap/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the server and codec settings.
type Config struct {
	Version int         `yaml:"version"`
	Listen  string      `yaml:"listen"`
	Store   StoreConfig `yaml:"store"`
	Model   ModelConfig `yaml:"model"`
	Audit   AuditConfig `yaml:"audit"`
}

// StoreConfig configures the model library database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ModelConfig configures model file handling.
type ModelConfig struct {
	// Path is the working model file loaded at startup when present.
	Path string `yaml:"path,omitempty"`
	// Language tags localized text in the exchange format.
	Language string `yaml:"language"`
	// Watch reloads the working model when its file changes on disk.
	Watch bool `yaml:"watch"`
}

// AuditConfig configures the append-only operation log.
type AuditConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Listen:  ":3000",
		Store:   StoreConfig{Path: "./archimap.db"},
		Model:   ModelConfig{Language: "en"},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Listen == "" {
		c.Listen = ":3000"
	}
	if c.Store.Path == "" {
		c.Store.Path = "./archimap.db"
	}
	if c.Model.Language == "" {
		c.Model.Language = "en"
	}
}
