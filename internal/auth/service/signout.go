package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// SignOut blacklists an access token for the rest of its lifetime. The
// ledger and session cache are left alone since the blacklist is consulted
// before either.
func (s *SessionService) SignOut(ctx context.Context, accessToken string) (err error) {
	defer func() { s.Metrics.observe("sign_out", err) }()

	if accessToken == "" {
		return ErrMissingToken
	}

	listed, err := s.Blacklist.Contains(ctx, accessToken)
	if err != nil {
		return cacheFault(err)
	}
	if listed {
		return ErrAlreadyBlacklisted
	}

	claims, err := s.Verifier.Verify(accessToken)
	if err != nil {
		return ErrAlreadyInvalid
	}

	l := slogx.FromContext(slogx.WithUser(ctx, claims.Subject))
	if err := s.Blacklist.Add(ctx, accessToken, claims.Expiry()); err != nil {
		if errors.Is(err, cache.ErrInvalidTTL) {
			return ErrAlreadyInvalid
		}
		l.Error("failed to blacklist token", slog.Any("err", err))
		return cacheFault(err)
	}

	l.Info("signed out")
	return nil
}
