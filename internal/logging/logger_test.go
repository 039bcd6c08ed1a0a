package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RedactsEmail(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core))

	log.Info("saved", "email", "jane@example.com", "key", "portfolio-data")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "[REDACTED]", fields["email"])
	assert.Equal(t, "portfolio-data", fields["key"])
}

func TestLogger_WithKeepsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := FromZap(zap.New(core)).With("component", "gateway")

	log.Warn("backup skipped")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "gateway", entries[0].ContextMap()["component"])
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	assert.Equal(t, []interface{}{"a", 1, "dangling"}, out)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
}

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
}
