// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/persistence"
)

// Config represents the configuration that can be loaded from a JSON file or the
// environment. All fields are optional; missing values use defaults.
type Config struct {
	// Storage
	Store       string `json:"store,omitempty"`        // Backend: file, memory, badger, redis, postgres
	StoreDir    string `json:"store_dir,omitempty"`    // Directory for the file and badger backends
	QuotaBytes  int64  `json:"quota_bytes,omitempty"`  // Store byte quota; negative disables it
	RedisAddr   string `json:"redis_addr,omitempty"`   // host:port of the redis backend
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Origin      string `json:"origin,omitempty"`       // Namespace inside shared backends

	// Keys
	PrimaryKey string `json:"primary_key,omitempty"`
	BackupKey  string `json:"backup_key,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`

	// Behavior
	Debounce string `json:"debounce,omitempty"` // Auto-save delay, e.g. "500ms"
	LogMode  string `json:"log_mode,omitempty"` // "dev" or "prod"
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store:      kv.BackendFile,
		StoreDir:   defaultStoreDir(),
		QuotaBytes: kv.DefaultQuotaBytes,
		Origin:     "portfolio",
		PrimaryKey: persistence.DefaultPrimaryKey,
		BackupKey:  persistence.DefaultBackupKey,
		MaxBackups: persistence.DefaultMaxBackups,
		Debounce:   "500ms",
		LogMode:    "dev",
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "portfolio-keeper")
	}
	return ".portfolio-keeper"
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case "", kv.BackendFile, kv.BackendMemory, kv.BackendBadger:
	case kv.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("config error: 'redis_addr' is required for the redis store")
		}
	case kv.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres store")
		}
	default:
		return fmt.Errorf("config error: unknown store %q", c.Store)
	}

	if c.MaxBackups < 0 {
		return fmt.Errorf("config error: 'max_backups' must be non-negative")
	}
	if c.PrimaryKey != "" && c.PrimaryKey == c.BackupKey {
		return fmt.Errorf("config error: 'primary_key' and 'backup_key' must differ")
	}
	if c.PrimaryKey == kv.ProbeKey || c.BackupKey == kv.ProbeKey {
		return fmt.Errorf("config error: %q is reserved", kv.ProbeKey)
	}

	if c.Debounce != "" {
		d, err := time.ParseDuration(c.Debounce)
		if err != nil {
			return fmt.Errorf("config error: invalid 'debounce': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'debounce' must be positive")
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Store == "" {
		result.Store = defaults.Store
	}
	if result.StoreDir == "" {
		result.StoreDir = defaults.StoreDir
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Origin == "" {
		result.Origin = defaults.Origin
	}
	if result.PrimaryKey == "" {
		result.PrimaryKey = defaults.PrimaryKey
	}
	if result.BackupKey == "" {
		result.BackupKey = defaults.BackupKey
	}
	if result.Debounce == "" {
		result.Debounce = defaults.Debounce
	}
	if result.LogMode == "" {
		result.LogMode = defaults.LogMode
	}

	// Int fields: use default if zero
	if result.QuotaBytes == 0 {
		result.QuotaBytes = defaults.QuotaBytes
	}
	if result.MaxBackups == 0 {
		result.MaxBackups = defaults.MaxBackups
	}

	return result
}

// StoreOptions returns the options for kv.Open.
func (c *Config) StoreOptions(log *logging.Logger) kv.Options {
	return kv.Options{
		Backend:     c.Store,
		Dir:         c.StoreDir,
		QuotaBytes:  c.QuotaBytes,
		RedisAddr:   c.RedisAddr,
		DatabaseURL: c.DatabaseURL,
		Origin:      c.Origin,
		Logger:      log,
	}
}

// GatewayOptions returns the options for persistence.NewGateway.
func (c *Config) GatewayOptions(log *logging.Logger) persistence.Options {
	return persistence.Options{
		PrimaryKey: c.PrimaryKey,
		BackupKey:  c.BackupKey,
		MaxBackups: c.MaxBackups,
		Logger:     log,
	}
}

// DebounceDelay returns the auto-save delay, or zero when unset or invalid.
func (c *Config) DebounceDelay() time.Duration {
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return 0
	}
	return d
}
