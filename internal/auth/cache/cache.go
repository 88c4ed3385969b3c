// Package cache holds the short-lived token state: the session cache that
// lets the authorization pipeline skip signature checks, and the blacklist
// of signed-out tokens. Both sit on the same key/value Store.
package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrMiss means the key is absent or expired.
	ErrMiss = errors.New("cache: miss")

	// ErrInvalidTTL is returned for a zero or negative TTL. Entries must
	// never outlive the token they describe, so there is no "forever".
	ErrInvalidTTL = errors.New("cache: ttl must be positive")

	// ErrUnavailable wraps every backing-store fault. A fault is never
	// reported as a miss.
	ErrUnavailable = errors.New("cache: unavailable")
)

// Store is a key/value store with per-key expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key and reports whether it existed. Exactly one of
	// several concurrent deleters of the same key observes true.
	Delete(ctx context.Context, key string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}
