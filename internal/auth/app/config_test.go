package app

import (
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/require"
)

var configEnv = []string{
	"AUTH_ISSUER", "AUTH_SECRET_FILE", "AUTH_ACCESS_TTL", "AUTH_REFRESH_TTL",
	"AUTH_DATABASE_FILE", "AUTH_PEPPER_FILE",
	"CACHE_DRIVER", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "REDIS_CONNECT_TIMEOUT",
	"COOKIE_SECURE", "COOKIE_DOMAIN",
	"ENV", "LOG_LEVEL", "LOG_FORMAT", "PORT", "SHUTDOWN_GRACE_PERIOD", "HOUSEKEEPING_INTERVAL",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := LoadConfig()
	require.Equal(t, "tokenauth", cfg.Issuer)
	require.Equal(t, time.Hour, cfg.AccessTTL)
	require.Equal(t, 168*time.Hour, cfg.RefreshTTL)
	require.Equal(t, CacheRedis, cfg.CacheDriver)
	require.Equal(t, "localhost:6379", cfg.RedisAddr)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.False(t, cfg.CookieSecure, "dev serves plain http")
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENV", "prod")
	t.Setenv("AUTH_ACCESS_TTL", "15")
	t.Setenv("AUTH_REFRESH_TTL", "24h")
	t.Setenv("CACHE_DRIVER", "memory")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("COOKIE_DOMAIN", "example.com")

	cfg := LoadConfig()
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, CacheMemory, cfg.CacheDriver)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, "example.com", cfg.CookieDomain)

	t.Setenv("COOKIE_SECURE", "false")
	require.False(t, LoadConfig().CookieSecure)
}

func TestConfigValidate(t *testing.T) {
	clearConfigEnv(t)
	base := LoadConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown cache driver", func(c *Config) { c.CacheDriver = "memcached" }, "CacheDriver"},
		{"redis without address", func(c *Config) { c.RedisAddr = "" }, "RedisAddr"},
		{"port out of range", func(c *Config) { c.Port = 70000 }, "Port"},
		{"refresh shorter than access", func(c *Config) { c.RefreshTTL = time.Minute }, "RefreshTTL"},
		{"missing issuer", func(c *Config) { c.Issuer = "" }, "Issuer"},
		{"unknown log format", func(c *Config) { c.LogFormat = "xml" }, "LogFormat"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var errs validation.Errors
			require.ErrorAs(t, err, &errs)
			require.Contains(t, errs, tc.field)
		})
	}

	t.Run("memory driver needs no redis", func(t *testing.T) {
		cfg := base
		cfg.CacheDriver = CacheMemory
		cfg.RedisAddr = ""
		require.NoError(t, cfg.Validate())
	})
}
