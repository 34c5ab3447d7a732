// Package config loads voyager's on-disk YAML configuration, overridden
// by environment variables and finally by CLI flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full process configuration.
type Config struct {
	JournalDir  string     `yaml:"journal_dir"`
	JournalFile string     `yaml:"journal_file"`
	Database    DBConfig   `yaml:"database"`
	Tail        TailConfig `yaml:"tail"`
	Log         LogConfig  `yaml:"log"`
}

// DBConfig configures the SQLite-backed storage engine (C5).
type DBConfig struct {
	Path string `yaml:"path"`
}

// TailConfig configures the log tailer (C1).
type TailConfig struct {
	PollInterval        time.Duration `yaml:"poll_interval"`
	BackfillConcurrency int           `yaml:"backfill_concurrency"`
}

// LogConfig configures internal/logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
	File   string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file or
// environment override is present.
func DefaultConfig() *Config {
	return &Config{
		Database: DBConfig{
			Path: DefaultDBPath(),
		},
		Tail: TailConfig{
			PollInterval:        50 * time.Millisecond,
			BackfillConcurrency: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Pretty: true,
		},
	}
}

// Load loads configuration using the real environment.
func Load() (*Config, error) {
	return LoadWithEnv(os.Getenv)
}

// LoadWithEnv loads configuration using the provided environment lookup
// function. This allows tests to provide isolated environment values.
func LoadWithEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPathWithEnv(getenv)
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if dir := getenv("VOYAGER_JOURNAL_DIR"); dir != "" {
		cfg.JournalDir = dir
	}
	if file := getenv("VOYAGER_JOURNAL_FILE"); file != "" {
		cfg.JournalFile = file
	}
	if dbPath := getenv("VOYAGER_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if level := getenv("VOYAGER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func getConfigPath() string {
	return getConfigPathWithEnv(os.Getenv)
}

func getConfigPathWithEnv(getenv func(string) string) string {
	if xdgConfig := getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "voyager", "config.yaml")
	}

	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "voyager", "config.yaml")
}

// DefaultDBPath returns the default location of the SQLite cache file.
func DefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = os.Getenv("HOME")
	}
	return filepath.Join(configDir, "voyager", "journal.db")
}
