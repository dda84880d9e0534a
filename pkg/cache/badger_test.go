package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadger(t *testing.T) *BadgerBackend {
	t.Helper()
	b, err := NewBadgerBackend(BadgerConfig{Path: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestBadgerBackend_GetSet(t *testing.T) {
	b := newTestBadger(t)
	ctx := context.Background()

	_, err := b.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, b.Set(ctx, "key", []byte("value"), 0))

	got, err := b.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}

func TestBadgerBackend_TTLExpiry(t *testing.T) {
	b := newTestBadger(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "short", []byte("v"), 50*time.Millisecond))

	_, err := b.Get(ctx, "short")
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	_, err = b.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestBadgerBackend_DeletePrefix(t *testing.T) {
	b := newTestBadger(t)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "records:tbl1:x", []byte("1"), 0))
	require.NoError(t, b.Set(ctx, "records:tbl2:y", []byte("2"), 0))

	require.NoError(t, b.DeletePrefix(ctx, "records:tbl1:"))

	_, err := b.Get(ctx, "records:tbl1:x")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = b.Get(ctx, "records:tbl2:y")
	assert.NoError(t, err)
}

func TestBadgerBackend_InMemory(t *testing.T) {
	b, err := NewBadgerBackend(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer b.Close()
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "key", []byte("value"), 0))
	got, err := b.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
}
