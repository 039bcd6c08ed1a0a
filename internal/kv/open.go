package kv

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/portfolio-keeper/internal/logging"
)

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendBadger   = "badger"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string // file and badger
	QuotaBytes  int64  // 0 disables the quota
	RedisAddr   string
	DatabaseURL string
	Origin      string // redis prefix / postgres origin column
	Logger      *logging.Logger
}

// Open builds the configured backend and applies the quota decorator.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		store, err = OpenFile(opts.Dir)
	case BackendMemory:
		store = NewMemory()
	case BackendBadger:
		store, err = OpenBadger(BadgerConfig{Path: opts.Dir, SyncWrites: true, Logger: opts.Logger})
	case BackendRedis:
		prefix := ""
		if opts.Origin != "" {
			prefix = opts.Origin + ":"
		}
		store, err = OpenRedis(ctx, RedisConfig{Addr: opts.RedisAddr, Prefix: prefix})
	case BackendPostgres:
		store, err = OpenPostgres(ctx, opts.DatabaseURL, opts.Origin)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return WithQuota(store, opts.QuotaBytes), nil
}

// AsFileStore returns the file backend beneath s, looking through the quota decorator.
func AsFileStore(s Store) (*FileStore, bool) {
	if q, ok := s.(*quotaStore); ok {
		s = q.Unwrap()
	}
	fs, ok := s.(*FileStore)
	return fs, ok
}
