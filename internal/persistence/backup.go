package persistence

import (
	"context"
	"errors"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/observability"
)

// Ring keeps the most recent serialized snapshots under the backup key, newest first.
type Ring struct {
	store kv.Store
	codec *Codec
	key   string
	max   int
	log   *logging.Logger
}

// NewRing creates a backup ring holding at most max snapshots.
func NewRing(store kv.Store, codec *Codec, key string, max int, log *logging.Logger) *Ring {
	if key == "" {
		key = DefaultBackupKey
	}
	if max <= 0 {
		max = DefaultMaxBackups
	}
	return &Ring{store: store, codec: codec, key: key, max: max, log: logging.OrNop(log)}
}

// Push prepends snapshot and persists the trimmed list. When the store is over quota
// the oldest entries are dropped one at a time; if even a single entry does not fit,
// the backup key is removed. Failures are logged, never returned: backups are advisory.
func (r *Ring) Push(ctx context.Context, snapshot string) {
	existing, err := r.read(ctx)
	if err != nil {
		r.log.Warn("Backup step failed", "key", r.key, "error", err)
		return
	}

	snapshots := make([]string, 0, len(existing)+1)
	snapshots = append(snapshots, snapshot)
	snapshots = append(snapshots, existing...)
	if len(snapshots) > r.max {
		snapshots = snapshots[:r.max]
	}

	for {
		err := r.store.Set(ctx, r.key, r.codec.EncodeBackups(snapshots))
		if err == nil {
			return
		}
		if kv.IsQuotaExceeded(err) && len(snapshots) > 1 {
			snapshots = snapshots[:len(snapshots)-1]
			observability.BackupDegradationsTotal.WithLabelValues("trimmed").Inc()
			r.log.Debug("Backup over quota, dropping oldest entry", "remaining", len(snapshots))
			continue
		}

		if rmErr := r.store.Remove(ctx, r.key); rmErr != nil {
			r.log.Debug("Failed to remove backup key", "key", r.key, "error", rmErr)
		}
		observability.BackupDegradationsTotal.WithLabelValues("dropped").Inc()
		r.log.Warn("Backup skipped due to storage quota. Primary data saved.", "key", r.key, "error", err)
		return
	}
}

// List returns the stored snapshots, newest first. Missing, unreadable or corrupt
// backup data yields an empty list.
func (r *Ring) List(ctx context.Context) []string {
	snapshots, err := r.read(ctx)
	if err != nil {
		r.log.Warn("Failed to read backups", "key", r.key, "error", err)
		return []string{}
	}
	return snapshots
}

func (r *Ring) read(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.codec.DecodeBackups(raw), nil
}
