package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := Config{RedisAddr: mr.Addr(), RedisConnectTimeout: time.Second}
	client, err := connectRedis(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	require.Equal(t, "v", got)
}

func TestConnectRedisGivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := Config{RedisAddr: addr, RedisConnectTimeout: 300 * time.Millisecond}

	start := time.Now()
	_, err := connectRedis(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	require.Contains(t, err.Error(), addr)
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestConnectRedisHonoursContext(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{RedisAddr: addr, RedisConnectTimeout: time.Hour}
	_, err := connectRedis(ctx, cfg, discardLogger())
	require.Error(t, err)
}

func TestInitCache(t *testing.T) {
	ctx := context.Background()

	cs, err := InitCache(ctx, Config{CacheDriver: CacheMemory}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &cache.MemoryStore{}, cs)
	require.NoError(t, cs.Close())

	mr := miniredis.RunT(t)
	cs, err = InitCache(ctx, Config{CacheDriver: CacheRedis, RedisAddr: mr.Addr(), RedisConnectTimeout: time.Second}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &cache.RedisStore{}, cs)
	require.NoError(t, cs.Ping(ctx))
	require.NoError(t, cs.Close())

	_, err = InitCache(ctx, Config{CacheDriver: "memcached"}, discardLogger())
	require.Error(t, err)
}
