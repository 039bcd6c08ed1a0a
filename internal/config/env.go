package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by FromEnv.
const (
	EnvStore       = "PORTFOLIO_STORE"
	EnvStoreDir    = "PORTFOLIO_STORE_DIR"
	EnvQuotaBytes  = "PORTFOLIO_QUOTA_BYTES"
	EnvRedisAddr   = "REDIS_ADDR"
	EnvDatabaseURL = "DATABASE_URL"
	EnvDebounce    = "PORTFOLIO_DEBOUNCE"
	EnvLogMode     = "PORTFOLIO_LOG_MODE"
)

// LoadDotEnv loads variables from the given .env files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables. Unset variables leave fields empty.
func FromEnv() (Config, error) {
	cfg := Config{
		Store:       os.Getenv(EnvStore),
		StoreDir:    os.Getenv(EnvStoreDir),
		RedisAddr:   os.Getenv(EnvRedisAddr),
		DatabaseURL: os.Getenv(EnvDatabaseURL),
		Debounce:    os.Getenv(EnvDebounce),
		LogMode:     os.Getenv(EnvLogMode),
	}
	if raw := os.Getenv(EnvQuotaBytes); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvQuotaBytes, err)
		}
		cfg.QuotaBytes = n
	}
	return cfg, nil
}

// Resolve layers configuration: explicit file (if path is set) over environment over
// built-in defaults, and validates the result.
func Resolve(path string) (Config, error) {
	env, err := FromEnv()
	if err != nil {
		return Config{}, err
	}

	cfg := env
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(env)
	}
	cfg = cfg.MergeWithDefaults(Defaults())

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
