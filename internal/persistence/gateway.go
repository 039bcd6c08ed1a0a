package persistence

import (
	"context"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/logging"
	"github.com/jonathan/portfolio-keeper/internal/observability"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// Options configures a Gateway.
type Options struct {
	PrimaryKey string
	BackupKey  string
	MaxBackups int
	Logger     *logging.Logger
}

// Gateway durably writes the current record: probe, primary write, then backup rotation.
type Gateway struct {
	store      kv.Store
	codec      *Codec
	probe      *Probe
	ring       *Ring
	primaryKey string
	log        *logging.Logger
}

// NewGateway wires a codec, probe and backup ring over store.
func NewGateway(store kv.Store, opts Options) *Gateway {
	log := logging.OrNop(opts.Logger).With("component", "persistence")
	primary := opts.PrimaryKey
	if primary == "" {
		primary = DefaultPrimaryKey
	}
	codec := NewCodec(log)
	return &Gateway{
		store:      store,
		codec:      codec,
		probe:      NewProbe(store, log),
		ring:       NewRing(store, codec, opts.BackupKey, opts.MaxBackups, log),
		primaryKey: primary,
		log:        log,
	}
}

// Codec returns the gateway's codec.
func (g *Gateway) Codec() *Codec {
	return g.codec
}

// Ring returns the backup ring.
func (g *Gateway) Ring() *Ring {
	return g.ring
}

// Loader returns a recovery loader reading the same keys.
func (g *Gateway) Loader() *Loader {
	return &Loader{store: g.store, codec: g.codec, ring: g.ring, primaryKey: g.primaryKey, log: g.log}
}

// Save writes record to the primary key and rotates it into the backup ring.
// A nil error means the primary write succeeded; backup problems never fail a save.
// The error's message is the user-facing reason otherwise.
func (g *Gateway) Save(ctx context.Context, record types.PortfolioRecord) error {
	if !g.probe.IsWritable(ctx) {
		observability.SavesTotal.WithLabelValues("unavailable").Inc()
		return &StorageUnavailableError{Key: g.primaryKey}
	}

	snapshot := g.codec.Encode(record)
	if err := g.store.Set(ctx, g.primaryKey, snapshot); err != nil {
		observability.SavesTotal.WithLabelValues("failed").Inc()
		g.log.Warn("Save failed", "key", g.primaryKey, "error", err)
		return err
	}

	g.pushBackup(ctx, snapshot)
	observability.SavesTotal.WithLabelValues("success").Inc()
	return nil
}

func (g *Gateway) pushBackup(ctx context.Context, snapshot string) {
	defer func() {
		if r := recover(); r != nil {
			g.log.Warn("Backup step failed", "panic", r)
		}
	}()
	g.ring.Push(ctx, snapshot)
}

// Backups returns the parseable snapshots in the ring, newest first.
func (g *Gateway) Backups(ctx context.Context) []types.PortfolioRecord {
	raw := g.ring.List(ctx)
	out := make([]types.PortfolioRecord, 0, len(raw))
	for _, snap := range raw {
		record, err := g.codec.TryDecode(snap)
		if err != nil {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Backup decodes backup entry index (0 is newest) without writing anything.
func (g *Gateway) Backup(ctx context.Context, index int) (types.PortfolioRecord, error) {
	raw := g.ring.List(ctx)
	if index < 0 || index >= len(raw) {
		return types.PortfolioRecord{}, &BackupIndexError{Index: index, Count: len(raw)}
	}
	record, err := g.codec.TryDecode(raw[index])
	if err != nil {
		return types.PortfolioRecord{}, &CorruptBackupError{Index: index, Cause: err}
	}
	return record, nil
}

// Restore saves backup entry index as the primary record. It is the explicit,
// user-driven way to repair the primary key from a backup.
func (g *Gateway) Restore(ctx context.Context, index int) (types.PortfolioRecord, error) {
	record, err := g.Backup(ctx, index)
	if err != nil {
		return types.PortfolioRecord{}, err
	}
	if err := g.Save(ctx, record); err != nil {
		return types.PortfolioRecord{}, err
	}
	g.log.Info("Restored backup", "index", index)
	return record, nil
}
