package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
)

const sessionPrefix = "session:"

// SessionCache maps an access token to the claims it was verified with.
// Keys are token fingerprints so a dump of the cache holds no usable tokens.
type SessionCache struct {
	store Store
	now   func() time.Time
}

func NewSessionCache(store Store, now func() time.Time) *SessionCache {
	if now == nil {
		now = time.Now
	}
	return &SessionCache{store: store, now: now}
}

// Put caches claims until the token expires. A token with no lifetime left
// is not cached and ErrInvalidTTL is returned.
func (c *SessionCache) Put(ctx context.Context, token string, claims jwtx.Claims) error {
	b, err := json.Marshal(claims)
	if err != nil {
		return fmt.Errorf("cache: encode claims: %w", err)
	}
	return c.store.Set(ctx, sessionKey(token), b, claims.Remaining(c.now()))
}

// Get returns the cached claims or ErrMiss.
func (c *SessionCache) Get(ctx context.Context, token string) (jwtx.Claims, error) {
	b, err := c.store.Get(ctx, sessionKey(token))
	if err != nil {
		return jwtx.Claims{}, err
	}

	var claims jwtx.Claims
	if err := json.Unmarshal(b, &claims); err != nil {
		// A corrupt entry is dropped and treated as absent.
		_, _ = c.store.Delete(ctx, sessionKey(token))
		return jwtx.Claims{}, ErrMiss
	}
	return claims, nil
}

// Consume deletes the entry and reports whether this caller removed it.
// Single-use tokens are honoured only for the caller that sees true.
func (c *SessionCache) Consume(ctx context.Context, token string) (bool, error) {
	return c.store.Delete(ctx, sessionKey(token))
}

// Drop removes the entry if present.
func (c *SessionCache) Drop(ctx context.Context, token string) error {
	_, err := c.store.Delete(ctx, sessionKey(token))
	return err
}

func sessionKey(token string) string {
	return sessionPrefix + cryptox.FingerprintToken(token)
}
