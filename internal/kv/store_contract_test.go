package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises the behavior every backend must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "portfolio-data", `{"name":"Jane"}`))
		v, err := s.Get(ctx, "portfolio-data")
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Jane"}`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "portfolio-data", `{"name":"Jane Doe"}`))
		v, err := s.Get(ctx, "portfolio-data")
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Jane Doe"}`, v)
	})

	t.Run("keys", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "portfolio-backups", `[]`))
		keys, err := s.Keys(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, "portfolio-data")
		assert.Contains(t, keys, "portfolio-backups")
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Remove(ctx, "portfolio-backups"))
		_, err := s.Get(ctx, "portfolio-backups")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("remove missing key", func(t *testing.T) {
		assert.NoError(t, s.Remove(ctx, "never-written"))
	})

	t.Run("special characters in key", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, ProbeKey, "1"))
		v, err := s.Get(ctx, ProbeKey)
		require.NoError(t, err)
		assert.Equal(t, "1", v)
		require.NoError(t, s.Remove(ctx, ProbeKey))
	})
}
