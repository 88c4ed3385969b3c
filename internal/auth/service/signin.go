package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/idx"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// SignIn exchanges an email and password for a new session.
func (s *SessionService) SignIn(ctx context.Context, req SignInRequest) (res SessionResult, err error) {
	defer func() { s.Metrics.observe("sign_in", err) }()

	if err := req.Validate(); err != nil {
		return SessionResult{}, err
	}

	user, err := s.Credentials.VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return SessionResult{}, err
	}

	ctx = slogx.WithUser(ctx, user.ID)
	l := slogx.FromContext(ctx)

	pair, claims, err := s.Issuer.Issue(user, IssueOptions{AccessType: jwtx.AccessUser})
	if err != nil {
		return SessionResult{}, err
	}

	entry := newLedgerEntry(user.ID, pair, req.Requester, s.now())
	if err := s.Store.Ledger().CreateEntry(ctx, entry); err != nil {
		l.Error("failed to record token pair", slog.Any("err", err))
		return SessionResult{}, ledgerFault(err)
	}

	if err := s.Sessions.Put(ctx, pair.AccessToken, claims); err != nil {
		l.Error("failed to cache session", slog.Any("err", err))
		return SessionResult{}, cacheFault(err)
	}

	s.Metrics.tokenIssued(claims.AccessType)
	l.Info("session created", slog.String("session_id", pair.SessionID))

	return sessionResult(pair, claims), nil
}

func newLedgerEntry(userID string, pair domain.TokenPair, who domain.Requester, now time.Time) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:                    idx.NewAt(now).String(),
		SessionID:             pair.SessionID,
		UserID:                userID,
		AccessTokenHash:       cryptox.FingerprintToken(pair.AccessToken),
		RefreshTokenHash:      cryptox.FingerprintToken(pair.RefreshToken),
		AccessTokenExpiresAt:  pair.AccessExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshExpiresAt,
		Requester:             who,
		CreatedAt:             now,
	}
}

func sessionResult(pair domain.TokenPair, claims jwtx.Claims) SessionResult {
	return SessionResult{
		AccessToken: pair.AccessToken,
		Claims:      claims,
		Refresh:     RefreshCookie{Token: pair.RefreshToken, ExpiresAt: pair.RefreshExpiresAt},
	}
}
