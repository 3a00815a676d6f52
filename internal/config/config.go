// Package config loads CLI settings.
//
// Config is stored at $XDG_CONFIG_HOME/blockflow/config.yaml (defaults to
// ~/.config/blockflow/config.yaml). Every field is optional:
//
//	tick_interval: 200ms
//	speed: 10
//	catalog_path: ./lab.yaml
//	journal_path: ./runs.db
//	log_level: info
//	log_format: json
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTickInterval = 200 * time.Millisecond
	DefaultSpeed        = 1.0
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "text"
)

// Config holds the CLI settings.
type Config struct {
	// TickInterval is the simulated engine tick.
	TickInterval time.Duration `yaml:"tick_interval,omitempty"`

	// Speed divides wall-clock time during `simulate`; 10 runs ten times
	// faster than the estimates.
	Speed float64 `yaml:"speed,omitempty"`

	// CatalogPath replaces the built-in palette when set.
	CatalogPath string `yaml:"catalog_path,omitempty"`

	// JournalPath enables a SQLite step journal when set.
	JournalPath string `yaml:"journal_path,omitempty"`

	LogLevel string `yaml:"log_level,omitempty"`

	// LogFormat is "text" or "json".
	LogFormat string `yaml:"log_format,omitempty"`
}

// Default returns the settings used when no file exists.
func Default() *Config {
	return &Config{
		TickInterval: DefaultTickInterval,
		Speed:        DefaultSpeed,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/blockflow/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "blockflow", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "blockflow", "config.yaml")
}

// Load reads the config file at path, or at Path() when path is empty. If
// the file does not exist, defaults are returned (not an error).
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval)
	}
	if c.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %g", c.Speed)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// ScaledTick returns the wall-clock tick after applying Speed.
func (c *Config) ScaledTick() time.Duration {
	d := time.Duration(float64(c.TickInterval) / c.Speed)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

func (c *Config) applyDefaults() {
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Speed == 0 {
		c.Speed = DefaultSpeed
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
}
