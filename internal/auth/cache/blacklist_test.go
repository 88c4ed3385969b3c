package cache

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestBlacklist(t *testing.T) {
	for name, mk := range harnesses() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			h := mk(t)
			bl := NewBlacklist(h.store, h.now)

			ok, err := bl.Contains(ctx, "tok")
			require.NoError(t, err)
			require.False(t, ok)

			require.NoError(t, bl.Add(ctx, "tok", h.now().Add(30*time.Minute)))

			ok, err = bl.Contains(ctx, "tok")
			require.NoError(t, err)
			require.True(t, ok)

			raw, err := h.store.Get(ctx, blacklistKey("tok"))
			require.NoError(t, err)
			var entry blacklistEntry
			require.NoError(t, json.Unmarshal(raw, &entry))
			require.False(t, entry.CreatedAt.IsZero())

			// Lives exactly as long as the token had left.
			h.advance(31 * time.Minute)
			ok, err = bl.Contains(ctx, "tok")
			require.NoError(t, err)
			require.False(t, ok)
		})
	}
}

func TestBlacklistRejectsExpiredToken(t *testing.T) {
	h := newMemoryHarness(t)
	bl := NewBlacklist(h.store, h.now)
	require.ErrorIs(t, bl.Add(context.Background(), "tok", h.now().Add(-time.Second)), ErrInvalidTTL)
}

func TestBlacklistFaultIsNotAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	mr.Close()

	ok, err := NewBlacklist(s, nil).Contains(context.Background(), "tok")
	require.ErrorIs(t, err, ErrUnavailable)
	require.False(t, ok)
}
