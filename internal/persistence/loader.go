package persistence

import (
	"context"
	"errors"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Source names the generation a loaded record came from.
type Source string

const (
	SourcePrimary Source = "primary"
	SourceBackup  Source = "backup"
	SourceDefault Source = "default"
)

// Loader recovers the record on start-up: primary, else newest backup, else default.
type Loader struct {
	store      kv.Store
	codec      *Codec
	ring       *Ring
	primaryKey string
	log        *logging.Logger
}

// Load returns the recovered record. It never writes to the store.
func (l *Loader) Load(ctx context.Context, defaultRecord types.PortfolioRecord) types.PortfolioRecord {
	record, _ := l.LoadWithSource(ctx, defaultRecord)
	return record
}

// LoadWithSource is Load that also reports which generation was used.
//
// A present primary value is always decoded with defaultRecord as fallback, even if it
// turns out to be corrupt; backups are only consulted when the primary key is absent
// or cannot be read.
func (l *Loader) LoadWithSource(ctx context.Context, defaultRecord types.PortfolioRecord) (types.PortfolioRecord, Source) {
	raw, err := l.store.Get(ctx, l.primaryKey)
	if err == nil {
		record, decodeErr := l.codec.TryDecode(raw)
		if decodeErr != nil {
			l.discard("record", decodeErr)
			return l.done(defaultRecord, SourceDefault)
		}
		return l.done(record, SourcePrimary)
	}
	if !errors.Is(err, kv.ErrNotFound) {
		l.log.Warn("Failed to read primary key, trying backups", "key", l.primaryKey, "error", err)
	}

	if backups := l.ring.List(ctx); len(backups) > 0 {
		record, decodeErr := l.codec.TryDecode(backups[0])
		if decodeErr != nil {
			l.discard("backup", decodeErr)
			return l.done(defaultRecord, SourceDefault)
		}
		return l.done(record, SourceBackup)
	}

	return l.done(defaultRecord, SourceDefault)
}

func (l *Loader) done(record types.PortfolioRecord, source Source) (types.PortfolioRecord, Source) {
	observability.LoadsTotal.WithLabelValues(string(source)).Inc()
	l.log.Debug("Loaded portfolio", "source", source)
	return record, source
}

func (l *Loader) discard(target string, err error) {
	if !errors.Is(err, errEmpty) {
		l.codec.fallback(target, err)
	}
}
