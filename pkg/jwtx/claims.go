package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Default lifetimes for the token pair.
const (
	DefaultAccessTokenTTL  = time.Hour
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// AccessType distinguishes interactive user tokens from single-use system
// tokens. It is carried as a signed claim.
type AccessType string

const (
	AccessUser   AccessType = "USER"
	AccessSystem AccessType = "SYSTEM"
)

func (a AccessType) Valid() bool {
	return a == AccessUser || a == AccessSystem
}

// AuthenticatedUser is the identity embedded in every access token.
type AuthenticatedUser struct {
	ID          string `json:"id"`
	AccessLevel int    `json:"access_level"`
}

// Claims are the access-token claims.
type Claims struct {
	jwt.RegisteredClaims

	AccessType        AccessType        `json:"access_type"`
	AuthenticatedUser AuthenticatedUser `json:"authenticated_user"`
}

// RefreshClaims are carried by refresh tokens. They deliberately lack an
// access_type so a refresh token never verifies as an access token.
type RefreshClaims struct {
	jwt.RegisteredClaims

	SID string `json:"sid"`
}

// NewAccessClaims builds access claims valid from now for ttl.
func NewAccessClaims(user AuthenticatedUser, kind AccessType, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: registered(issuer, user.ID, ttl, now),
		AccessType:        kind,
		AuthenticatedUser: user,
	}
}

// NewRefreshClaims builds refresh claims bound to a session.
func NewRefreshClaims(subject, sid, issuer string, ttl time.Duration, now time.Time) RefreshClaims {
	return RefreshClaims{
		RegisteredClaims: registered(issuer, subject, ttl, now),
		SID:              sid,
	}
}

func registered(issuer, subject string, ttl time.Duration, now time.Time) jwt.RegisteredClaims {
	now = now.UTC().Truncate(time.Second)
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        NewJTI(),
	}
}

// NewJTI returns a random identifier for the "jti" claim. Two tokens issued
// for the same user within the same second must still differ.
func NewJTI() string {
	return uuid.NewString()
}

// Issued returns the iat instant, or the zero time when absent.
func (c Claims) Issued() time.Time {
	if c.RegisteredClaims.IssuedAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.IssuedAt.Time
}

// Expiry returns the exp instant, or the zero time when absent.
func (c Claims) Expiry() time.Time {
	if c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

// Remaining is the lifetime left at now. It is never negative.
func (c Claims) Remaining(now time.Time) time.Duration {
	left := c.Expiry().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Validate checks the custom claims that jwt's validator does not know about.
func (c Claims) Validate() error {
	if !c.AccessType.Valid() {
		return ErrInvalidClaim
	}
	if c.AuthenticatedUser.ID == "" || c.AuthenticatedUser.ID != c.Subject {
		return ErrInvalidClaim
	}
	return nil
}
