package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Cache drivers.
const (
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

type Config struct {
	Issuer     string        // Issuer claim for tokens (default: tokenauth)
	SecretFile string        // Path to the HS256 signing secret, generated if missing (default: ./signing.key)
	AccessTTL  time.Duration // Access token lifetime (default: 1h)
	RefreshTTL time.Duration // Refresh token lifetime (default: 168h)

	DatabaseFile string // Path to SQLite database file (default: ./auth.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	CacheDriver         string        // Session cache backend, redis or memory (default: redis)
	RedisAddr           string        // Redis address (default: localhost:6379)
	RedisPassword       string        // Optional
	RedisDB             int           // Redis logical database (default: 0)
	RedisConnectTimeout time.Duration // How long startup retries Redis (default: 30s)

	CookieSecure bool   // Secure attribute of the refresh cookie (default: true outside dev)
	CookieDomain string // Optional Domain attribute of the refresh cookie

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger pruning interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:     getEnvOrDefault("AUTH_ISSUER", "tokenauth"),
		SecretFile: getEnvOrDefault("AUTH_SECRET_FILE", "signing.key"),
		AccessTTL:  getEnvDurationOrDefault("AUTH_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL: getEnvDurationOrDefault("AUTH_REFRESH_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:   getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),

		CacheDriver:         getEnvOrDefault("CACHE_DRIVER", CacheRedis),
		RedisAddr:           getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:             getEnvIntOrDefault("REDIS_DB", 0),
		RedisConnectTimeout: getEnvDurationOrDefault("REDIS_CONNECT_TIMEOUT", 30*time.Second),

		CookieDomain: os.Getenv("COOKIE_DOMAIN"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// Plain-HTTP development setups would never see a Secure cookie again.
	cfg.CookieSecure = getEnvBoolOrDefault("COOKIE_SECURE", cfg.Env != "dev")

	return cfg
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	var redisRules []validation.Rule
	if c.CacheDriver == CacheRedis {
		redisRules = append(redisRules, validation.Required)
	}

	return validation.ValidateStruct(&c,
		validation.Field(&c.Issuer, validation.Required),
		validation.Field(&c.SecretFile, validation.Required),
		validation.Field(&c.AccessTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RefreshTTL, validation.Required, validation.Min(c.AccessTTL)),
		validation.Field(&c.DatabaseFile, validation.Required),
		validation.Field(&c.PepperFile, validation.Required),
		validation.Field(&c.CacheDriver, validation.Required, validation.In(CacheRedis, CacheMemory)),
		validation.Field(&c.RedisAddr, redisRules...),
		validation.Field(&c.RedisDB, validation.Min(0)),
		validation.Field(&c.LogFormat, validation.In("json", "text")),
		validation.Field(&c.Port, validation.Min(1), validation.Max(65535)),
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
