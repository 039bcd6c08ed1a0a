package persistence

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/portfolio-keeper/internal/kv"
)

func TestRing_KeepsNewestThree(t *testing.T) {
	ctx := context.Background()
	ring := NewRing(kv.NewMemory(), NewCodec(nil), "", 0, nil)

	for i := 1; i <= 5; i++ {
		ring.Push(ctx, fmt.Sprintf("s%d", i))
	}
	assert.Equal(t, []string{"s5", "s4", "s3"}, ring.List(ctx))
}

func TestRing_QuotaDegradationDropsKey(t *testing.T) {
	ctx := context.Background()
	store := newScriptedStore()
	codec := NewCodec(nil)
	require.NoError(t, store.Memory.Set(ctx, DefaultBackupKey, codec.EncodeBackups([]string{"s2", "s1"})))

	store.setHook = func(key, _ string) error {
		if key == DefaultBackupKey {
			return &kv.QuotaExceededError{Key: key}
		}
		return nil
	}

	NewRing(store, codec, DefaultBackupKey, 3, nil).Push(ctx, "s3")

	assert.Equal(t, []int{3, 2, 1}, store.backupAttempts())
	assert.Contains(t, store.removes, DefaultBackupKey)
	_, err := store.Memory.Get(ctx, DefaultBackupKey)
	assert.True(t, errors.Is(err, kv.ErrNotFound))
}

func TestRing_QuotaDegradationTrimsUntilFits(t *testing.T) {
	ctx := context.Background()
	store := newScriptedStore()
	codec := NewCodec(nil)
	require.NoError(t, store.Memory.Set(ctx, DefaultBackupKey, codec.EncodeBackups([]string{"s2", "s1"})))

	store.setHook = func(key, value string) error {
		if key == DefaultBackupKey && len(codec.DecodeBackups(value)) > 2 {
			return &kv.QuotaExceededError{Key: key}
		}
		return nil
	}

	ring := NewRing(store, codec, DefaultBackupKey, 3, nil)
	ring.Push(ctx, "s3")

	assert.Equal(t, []int{3, 2}, store.backupAttempts())
	assert.Equal(t, []string{"s3", "s2"}, ring.List(ctx))
	assert.Empty(t, store.removes)
}

func TestRing_NonQuotaFailureDropsKeyWithoutRetry(t *testing.T) {
	ctx := context.Background()
	store := newScriptedStore()
	codec := NewCodec(nil)
	require.NoError(t, store.Memory.Set(ctx, DefaultBackupKey, codec.EncodeBackups([]string{"s1"})))

	store.setHook = func(key, _ string) error {
		if key == DefaultBackupKey {
			return errors.New("disk on fire")
		}
		return nil
	}

	NewRing(store, codec, DefaultBackupKey, 3, nil).Push(ctx, "s2")

	assert.Equal(t, []int{2}, store.backupAttempts())
	assert.Contains(t, store.removes, DefaultBackupKey)
}

func TestRing_UnreadableListAbandonsPush(t *testing.T) {
	ctx := context.Background()
	store := newScriptedStore()
	store.getHook = func(key string) error {
		if key == DefaultBackupKey {
			return &kv.UnavailableError{Backend: "test"}
		}
		return nil
	}

	ring := NewRing(store, NewCodec(nil), DefaultBackupKey, 3, nil)
	ring.Push(ctx, "s1")

	assert.Empty(t, store.backupAttempts())
	assert.Equal(t, []string{}, ring.List(ctx))
}

func TestRing_CorruptListStartsOver(t *testing.T) {
	ctx := context.Background()
	m := kv.NewMemory()
	require.NoError(t, m.Set(ctx, DefaultBackupKey, "{not a list"))

	ring := NewRing(m, NewCodec(nil), DefaultBackupKey, 3, nil)
	ring.Push(ctx, "s1")

	assert.Equal(t, []string{"s1"}, ring.List(ctx))
}
