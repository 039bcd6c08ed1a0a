package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SavesTotal counts primary saves by result (success, unavailable, failed).
	SavesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_saves_total",
		Help: "Total primary save attempts by result",
	}, []string{"result"})

	// BackupDegradationsTotal counts backup ring writes that hit the quota, by action
	// taken (trimmed, dropped).
	BackupDegradationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_backup_degradations_total",
		Help: "Backup ring quota degradations by action",
	}, []string{"action"})

	// CodecFallbacksTotal counts decode failures resolved to a fallback value.
	CodecFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_codec_fallbacks_total",
		Help: "Decode failures resolved to a fallback value, by target",
	}, []string{"target"})

	// LoadsTotal counts recovery loads by the generation used.
	LoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_loads_total",
		Help: "Recovery loads by source generation",
	}, []string{"source"})

	// ExternalChangesTotal counts store keys modified by another process.
	ExternalChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_store_external_changes_total",
		Help: "Store keys modified outside this process",
	})
)
