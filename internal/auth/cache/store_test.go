package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeClock is shared by the memory store and, through advance, miniredis.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type storeHarness struct {
	store   Store
	advance func(time.Duration)
	now     func() time.Time
}

func newMemoryHarness(t *testing.T) storeHarness {
	clock := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryStoreWithClock(time.Hour, clock.Now)
	t.Cleanup(func() { _ = m.Close() })
	return storeHarness{
		store: m,
		now:   clock.Now,
		advance: func(d time.Duration) {
			clock.mu.Lock()
			clock.now = clock.now.Add(d)
			clock.mu.Unlock()
		},
	}
}

func newRedisHarness(t *testing.T) storeHarness {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s, err := NewRedisStore(client)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	// miniredis only moves time on FastForward; the wrappers' clock follows it.
	var offset atomic.Int64
	base := time.Now()
	return storeHarness{
		store: s,
		now:   func() time.Time { return base.Add(time.Duration(offset.Load())) },
		advance: func(d time.Duration) {
			offset.Add(int64(d))
			mr.FastForward(d)
		},
	}
}

func harnesses() map[string]func(*testing.T) storeHarness {
	return map[string]func(*testing.T) storeHarness{
		"memory": newMemoryHarness,
		"redis":  newRedisHarness,
	}
}

func TestStoreContract(t *testing.T) {
	for name, mk := range harnesses() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("miss", func(t *testing.T) {
				h := mk(t)
				_, err := h.store.Get(ctx, "nope")
				require.ErrorIs(t, err, ErrMiss)
			})

			t.Run("set get expire", func(t *testing.T) {
				h := mk(t)
				require.NoError(t, h.store.Set(ctx, "k", []byte("v"), time.Minute))

				got, err := h.store.Get(ctx, "k")
				require.NoError(t, err)
				require.Equal(t, []byte("v"), got)

				h.advance(61 * time.Second)
				_, err = h.store.Get(ctx, "k")
				require.ErrorIs(t, err, ErrMiss)
			})

			t.Run("invalid ttl", func(t *testing.T) {
				h := mk(t)
				require.ErrorIs(t, h.store.Set(ctx, "k", []byte("v"), 0), ErrInvalidTTL)
				require.ErrorIs(t, h.store.Set(ctx, "k", []byte("v"), -time.Second), ErrInvalidTTL)
			})

			t.Run("delete reports existence", func(t *testing.T) {
				h := mk(t)
				require.NoError(t, h.store.Set(ctx, "k", []byte("v"), time.Minute))

				existed, err := h.store.Delete(ctx, "k")
				require.NoError(t, err)
				require.True(t, existed)

				existed, err = h.store.Delete(ctx, "k")
				require.NoError(t, err)
				require.False(t, existed)
			})

			t.Run("concurrent delete has one winner", func(t *testing.T) {
				h := mk(t)
				require.NoError(t, h.store.Set(ctx, "k", []byte("v"), time.Minute))

				var wins atomic.Int32
				var wg sync.WaitGroup
				for range 16 {
					wg.Add(1)
					go func() {
						defer wg.Done()
						if ok, err := h.store.Delete(ctx, "k"); err == nil && ok {
							wins.Add(1)
						}
					}()
				}
				wg.Wait()
				require.EqualValues(t, 1, wins.Load())
			})

			t.Run("ping", func(t *testing.T) {
				require.NoError(t, mk(t).store.Ping(ctx))
			})
		})
	}
}

func TestRedisFaultIsUnavailable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	mr.Close()

	_, err = s.Get(ctx, "k")
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotErrorIs(t, err, ErrMiss)

	require.ErrorIs(t, s.Set(ctx, "k", []byte("v"), time.Minute), ErrUnavailable)
	_, err = s.Delete(ctx, "k")
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, s.Ping(ctx), ErrUnavailable)
}

func TestNewRedisStoreRejectsNil(t *testing.T) {
	_, err := NewRedisStore(nil)
	require.Error(t, err)
}

func TestMemoryJanitorSweeps(t *testing.T) {
	clock := &fakeClock{now: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemoryStoreWithClock(time.Hour, clock.Now)
	t.Cleanup(func() { _ = m.Close() })

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "short", []byte("1"), time.Second))
	require.NoError(t, m.Set(ctx, "long", []byte("2"), time.Hour))

	clock.mu.Lock()
	clock.now = clock.now.Add(time.Minute)
	clock.mu.Unlock()

	m.sweep()
	require.Equal(t, 1, m.Len())
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
}

func TestMemoryDeleteOfExpiredEntryReportsFalse(t *testing.T) {
	h := newMemoryHarness(t)
	ctx := context.Background()

	require.NoError(t, h.store.Set(ctx, "k", []byte("v"), time.Second))
	h.advance(2 * time.Second)

	existed, err := h.store.Delete(ctx, "k")
	require.NoError(t, err)
	require.False(t, existed)
}
