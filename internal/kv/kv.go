// Package kv provides the origin-scoped key-value store the portfolio is persisted into.
//
// A Store plays the role of browser local storage: string keys, string values, a byte
// quota, and the possibility of being unavailable altogether. Several backends are
// provided (memory, file, badger, redis, postgres); all of them report failures with the
// error kinds defined in errors.go so callers can apply the same degradation policy.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("kv: key not found")

// ProbeKey is the throwaway key used to test whether a store accepts writes.
const ProbeKey = "__storage_test__"

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists all keys currently held by the store.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the underlying resources.
	Close() error
}

// Usage returns the number of bytes the store currently holds, counted as
// len(key)+len(value) over all keys. Keys listed in skip are left out.
func Usage(ctx context.Context, s Store, skip ...string) (int64, error) {
	keys, err := s.Keys(ctx)
	if err != nil {
		return 0, err
	}
	var total int64
outer:
	for _, k := range keys {
		for _, sk := range skip {
			if k == sk {
				continue outer
			}
		}
		v, err := s.Get(ctx, k)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += int64(len(k) + len(v))
	}
	return total, nil
}
