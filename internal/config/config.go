// Package config loads user settings from a YAML file, an optional .env file
// and TODO_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tgienger/todo/internal/viewmodel"
)

// Environment variables read by Load
const (
	EnvConfig   = "TODO_CONFIG"
	EnvDBPath   = "TODO_DB_PATH"
	EnvLogFile  = "TODO_LOG_FILE"
	EnvLogLevel = "TODO_LOG_LEVEL"
)

// Config represents the application configuration. Empty paths mean the
// platform default.
type Config struct {
	DatabasePath   string      `yaml:"database_path"`
	LogFile        string      `yaml:"log_file"`
	LogLevel       string      `yaml:"log_level"`
	DefaultFilter  string      `yaml:"default_filter"`
	RememberFilter bool        `yaml:"remember_filter"`
	KeyMappings    KeyMappings `yaml:"key_mappings"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		DefaultFilter:  viewmodel.FilterAll.String(),
		RememberFilter: true,
		KeyMappings:    DefaultKeyMappings(),
	}
}

// Load reads the config at path. An empty path means $TODO_CONFIG, then
// DefaultPath. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	loadDotEnv(".env")

	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			slog.Warn("cannot determine config path, using defaults", "error", err)
		}
		path = p
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv exports the variables in file without overriding ones already set
func loadDotEnv(file string) {
	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load env file", "file", file, "error", err)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.DefaultFilter == "" {
		c.DefaultFilter = viewmodel.FilterAll.String()
	}
	c.KeyMappings.applyDefaults()
}

// Validate rejects values the application cannot use
func (c *Config) Validate() error {
	if _, err := viewmodel.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

// Filter returns the configured start-up filter
func (c *Config) Filter() viewmodel.Filter {
	f, _ := viewmodel.ParseFilter(c.DefaultFilter)
	return f
}

// Level returns the configured log level
func (c *Config) Level() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/todo/config.yaml, falling back to
// ~/.config/todo/config.yaml
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "todo", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "todo", "config.yaml"), nil
}
