package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/pkg/idx"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
)

// IssueOptions tunes a single issuance. Zero values fall back to the
// issuer's defaults.
type IssueOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	AccessType jwtx.AccessType

	// SessionID ties the pair to an existing session. A new one is
	// allocated when empty.
	SessionID string
}

// TokenIssuer mints signed token pairs. Apart from the clock and the random
// jti it is a pure function of its inputs.
type TokenIssuer struct {
	Signer     jwtx.Signer
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time
}

// RefreshToken is a signed refresh token on its own, minted when an
// existing session needs its refresh cookie re-derived.
type RefreshToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

var errNonPositiveTTL = errors.New("ttl must be positive")

func (i *TokenIssuer) now() time.Time {
	if i.Now != nil {
		return i.Now()
	}
	return time.Now()
}

// Issue mints an access token and a refresh token for user.
func (i *TokenIssuer) Issue(user domain.User, opts IssueOptions) (domain.TokenPair, jwtx.Claims, error) {
	refreshTTL := opts.RefreshTTL
	if refreshTTL == 0 {
		refreshTTL = i.RefreshTTL
	}
	if refreshTTL <= 0 {
		return domain.TokenPair{}, jwtx.Claims{}, fmt.Errorf("refresh %w", errNonPositiveTTL)
	}

	sid := opts.SessionID
	if sid == "" {
		sid = idx.New().String()
	}

	now := i.now()
	access, claims, err := i.issueAccess(user, opts.AccessType, opts.AccessTTL, now)
	if err != nil {
		return domain.TokenPair{}, jwtx.Claims{}, err
	}

	refreshClaims := jwtx.NewRefreshClaims(user.ID, sid, i.Issuer, refreshTTL, now)
	refresh, err := i.Signer.SignRefresh(refreshClaims)
	if err != nil {
		return domain.TokenPair{}, jwtx.Claims{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return domain.TokenPair{
		SessionID:        sid,
		AccessToken:      access,
		AccessIssuedAt:   claims.Issued(),
		AccessExpiresAt:  claims.Expiry(),
		RefreshToken:     refresh,
		RefreshIssuedAt:  refreshClaims.IssuedAt.Time,
		RefreshExpiresAt: refreshClaims.ExpiresAt.Time,
	}, claims, nil
}

// IssueAccess mints an access token with no refresh companion. SYSTEM
// tokens are issued this way.
func (i *TokenIssuer) IssueAccess(user domain.User, kind jwtx.AccessType, ttl time.Duration) (string, jwtx.Claims, error) {
	return i.issueAccess(user, kind, ttl, i.now())
}

// IssueRefreshUntil mints a refresh token for an existing session that
// expires at until, so re-deriving a cookie never extends a session.
func (i *TokenIssuer) IssueRefreshUntil(userID, sessionID string, until time.Time) (RefreshToken, error) {
	now := i.now()
	ttl := until.Sub(now)
	if ttl <= 0 {
		return RefreshToken{}, fmt.Errorf("refresh %w", errNonPositiveTTL)
	}

	claims := jwtx.NewRefreshClaims(userID, sessionID, i.Issuer, ttl, now)
	tok, err := i.Signer.SignRefresh(claims)
	if err != nil {
		return RefreshToken{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return RefreshToken{Token: tok, IssuedAt: claims.IssuedAt.Time, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (i *TokenIssuer) issueAccess(user domain.User, kind jwtx.AccessType, ttl time.Duration, now time.Time) (string, jwtx.Claims, error) {
	if ttl == 0 {
		ttl = i.AccessTTL
	}
	if ttl <= 0 {
		return "", jwtx.Claims{}, fmt.Errorf("access %w", errNonPositiveTTL)
	}
	if kind == "" {
		kind = jwtx.AccessUser
	}
	if !kind.Valid() {
		return "", jwtx.Claims{}, fmt.Errorf("unknown access type %q", kind)
	}

	claims := jwtx.NewAccessClaims(
		jwtx.AuthenticatedUser{ID: user.ID, AccessLevel: user.AccessLevel},
		kind, i.Issuer, ttl, now,
	)
	tok, err := i.Signer.Sign(claims)
	if err != nil {
		return "", jwtx.Claims{}, fmt.Errorf("sign access token: %w", err)
	}
	return tok, claims, nil
}
