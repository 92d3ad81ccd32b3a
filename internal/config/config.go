// Package config loads the application configuration. The YAML file covers
// paths, the listing source selection, and server settings; secrets
// (webhook URL, API tokens) come from environment variables only.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultUpstreamTimeout = 10 * time.Second

type Config struct {
	Data struct {
		Dir           string `yaml:"dir"`
		WatchlistFile string `yaml:"watchlist_file"`
		PricesFile    string `yaml:"prices_file"`
		ArchiveDB     string `yaml:"archive_db"` // empty disables the archive
	} `yaml:"data"`

	Source struct {
		Provider   string `yaml:"provider"` // "mock" or "ebay"
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"source"`

	Server struct {
		Addr        string   `yaml:"addr"`
		CORSOrigins []string `yaml:"cors_origins"`
	} `yaml:"server"`

	Logging struct {
		File       string `yaml:"file"` // empty logs to stderr only
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
	} `yaml:"logging"`
}

// Load reads the config file at path. A missing file yields defaults; a
// present but unparseable file is an error. Environment variables override
// file values after parsing.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	cfg := &Config{}
	cfg.Data.Dir = "."
	cfg.Data.WatchlistFile = "config.json"
	cfg.Data.PricesFile = "prices.json"
	cfg.Data.ArchiveDB = "cardwatch.db"
	cfg.Source.Provider = "mock"
	cfg.Source.TimeoutSec = int(defaultUpstreamTimeout / time.Second)
	cfg.Server.Addr = ":8080"
	cfg.Logging.MaxSizeMB = 10
	cfg.Logging.MaxBackups = 3
	return cfg
}

func overrideWithEnv(cfg *Config) {
	if dir := os.Getenv("CARDWATCH_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
	if provider := os.Getenv("CARDWATCH_SOURCE"); provider != "" {
		cfg.Source.Provider = provider
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Addr = ":" + port
	}
}

func (c *Config) Validate() error {
	switch c.Source.Provider {
	case "mock", "ebay":
	default:
		return fmt.Errorf("unknown listing source provider %q", c.Source.Provider)
	}
	if c.Source.TimeoutSec <= 0 {
		return fmt.Errorf("source timeout must be positive, got %d", c.Source.TimeoutSec)
	}
	return nil
}

// WatchlistPath returns the watchlist file path under the data dir.
func (c *Config) WatchlistPath() string {
	return filepath.Join(c.Data.Dir, c.Data.WatchlistFile)
}

// PricesPath returns the price history file path under the data dir.
func (c *Config) PricesPath() string {
	return filepath.Join(c.Data.Dir, c.Data.PricesFile)
}

// ArchivePath returns the sqlite archive path, or "" when disabled.
func (c *Config) ArchivePath() string {
	if c.Data.ArchiveDB == "" {
		return ""
	}
	return filepath.Join(c.Data.Dir, c.Data.ArchiveDB)
}

// UpstreamTimeout returns the configured upstream query timeout.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.Source.TimeoutSec) * time.Second
}
