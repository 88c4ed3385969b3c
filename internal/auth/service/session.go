package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	validation "github.com/go-ozzo/ozzo-validation"
)

// SessionService owns the token lifecycle: sign-in, authorization,
// refresh rotation and sign-out.
type SessionService struct {
	Store       store.Store
	Sessions    *cache.SessionCache
	Blacklist   *cache.Blacklist
	Issuer      *TokenIssuer
	Verifier    jwtx.Verifier
	Credentials *CredentialVerifier
	Metrics     *Metrics
	Now         func() time.Time
}

// RefreshCookie is the refresh token the transport should hand back to the
// client, together with when it stops being usable.
type RefreshCookie struct {
	Token     string
	ExpiresAt time.Time
}

// SessionResult is returned by sign-in and refresh.
type SessionResult struct {
	AccessToken string
	Claims      jwtx.Claims
	Refresh     RefreshCookie
}

type SignInRequest struct {
	Email     string
	Password  string
	Requester domain.Requester
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Validate distinguishes absent credentials from credentials that cannot
// possibly match a user.
func (r SignInRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	if err := validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	); err != nil {
		return ErrMissingCredentials
	}
	if err := validation.Validate(r.Email, validation.Match(emailPattern)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

type AuthorizeRequest struct {
	AccessToken string
	// RefreshToken is the refresh cookie, empty when the client sent none.
	RefreshToken string
	Requester    domain.Requester
}

// AuthorizeResult carries the verified claims. Refresh is set only when the
// refresh cookie had to be re-derived and must be sent back to the client.
type AuthorizeResult struct {
	Claims  jwtx.Claims
	Refresh *RefreshCookie
}

type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
	Requester    domain.Requester
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// publicClaims strips the timing claims that only matter to the cache.
func publicClaims(c jwtx.Claims) jwtx.Claims {
	c.IssuedAt = nil
	c.ExpiresAt = nil
	c.NotBefore = nil
	return c
}

// txError keeps service sentinels raised inside a transaction and maps
// anything else to a ledger fault.
func txError(err error) error {
	for _, sentinel := range outcomes {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return ledgerFault(err)
}
