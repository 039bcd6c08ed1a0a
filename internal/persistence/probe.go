package persistence

import (
	"context"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
)

// Probe checks whether a store currently accepts writes.
type Probe struct {
	store kv.Store
	log   *logging.Logger
}

// NewProbe creates a probe for store.
func NewProbe(store kv.Store, log *logging.Logger) *Probe {
	return &Probe{store: store, log: logging.OrNop(log)}
}

// IsWritable writes and removes a throwaway key. The answer is never cached since
// availability can change between calls.
func (p *Probe) IsWritable(ctx context.Context) bool {
	if err := p.store.Set(ctx, kv.ProbeKey, "1"); err != nil {
		p.log.Warn("Storage probe write failed", "error", err)
		return false
	}
	if err := p.store.Remove(ctx, kv.ProbeKey); err != nil {
		p.log.Warn("Storage probe cleanup failed", "error", err)
		return false
	}
	return true
}
