package kv

import (
	"context"
	"sync"
)

// DefaultQuotaBytes mirrors the 5 MiB per-origin allowance of browser local storage.
const DefaultQuotaBytes = 5 * 1024 * 1024

type quotaStore struct {
	Store
	mu    sync.Mutex
	limit int64
}

// WithQuota wraps s so that a Set which would push total usage above limit bytes fails
// with a QuotaExceededError and leaves the previous value in place. A limit <= 0
// disables the check.
func WithQuota(s Store, limit int64) Store {
	if limit <= 0 {
		return s
	}
	return &quotaStore{Store: s, limit: limit}
}

func (q *quotaStore) Set(ctx context.Context, key, value string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	used, err := Usage(ctx, q.Store, key)
	if err != nil {
		return err
	}
	needed := used + int64(len(key)+len(value))
	if needed > q.limit {
		return &QuotaExceededError{Key: key, Limit: q.limit, Needed: needed}
	}
	return q.Store.Set(ctx, key, value)
}

// Unwrap returns the wrapped store.
func (q *quotaStore) Unwrap() Store {
	return q.Store
}
