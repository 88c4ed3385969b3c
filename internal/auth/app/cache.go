package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// InitCache opens the configured session cache backend.
func InitCache(ctx context.Context, cfg Config, logger *slog.Logger) (cache.Store, error) {
	switch cfg.CacheDriver {
	case CacheMemory:
		logger.Warn("using in-memory session cache; sessions and blacklist are lost on restart and not shared between instances")
		return cache.NewMemoryStore(time.Minute), nil

	case CacheRedis:
		client, err := connectRedis(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return cache.NewRedisStore(client)

	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.CacheDriver)
	}
}

// connectRedis pings Redis with exponential backoff until it answers or
// cfg.RedisConnectTimeout passes, so the service can start alongside Redis.
func connectRedis(ctx context.Context, cfg Config, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = cfg.RedisConnectTimeout

	ping := func() error {
		return client.Ping(ctx).Err()
	}
	notify := func(err error, next time.Duration) {
		logger.Warn("redis not ready, retrying", "addr", cfg.RedisAddr, "err", err, "retry_in", next)
	}

	if err := backoff.RetryNotify(ping, backoff.WithContext(b, ctx), notify); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return client, nil
}
