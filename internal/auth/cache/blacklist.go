package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
)

const blacklistPrefix = "blacklist:"

type blacklistEntry struct {
	CreatedAt time.Time `json:"created_at"`
}

// Blacklist records signed-out access tokens until they would have expired
// anyway.
type Blacklist struct {
	store Store
	now   func() time.Time
}

func NewBlacklist(store Store, now func() time.Time) *Blacklist {
	if now == nil {
		now = time.Now
	}
	return &Blacklist{store: store, now: now}
}

// Add blacklists token until expiresAt. A token already past expiry returns
// ErrInvalidTTL.
func (b *Blacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	now := b.now()
	v, err := json.Marshal(blacklistEntry{CreatedAt: now.UTC()})
	if err != nil {
		return fmt.Errorf("cache: encode blacklist entry: %w", err)
	}
	return b.store.Set(ctx, blacklistKey(token), v, expiresAt.Sub(now))
}

// Contains reports whether token is blacklisted. Store faults are returned
// as errors, never as "not blacklisted".
func (b *Blacklist) Contains(ctx context.Context, token string) (bool, error) {
	_, err := b.store.Get(ctx, blacklistKey(token))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrMiss):
		return false, nil
	default:
		return false, err
	}
}

func blacklistKey(token string) string {
	return blacklistPrefix + cryptox.FingerprintToken(token)
}
