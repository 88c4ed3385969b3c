package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tokenauth/internal/auth/cache"
	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/idx"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// Authorize resolves an access token to its claims. The blacklist is
// consulted first, then the session cache, and only on a cache miss is the
// signature verified.
//
// USER tokens must still be linked to a live ledger entry. When the client's
// refresh cookie no longer pairs with the token, the cookie is re-derived
// and returned in the result.
func (s *SessionService) Authorize(ctx context.Context, req AuthorizeRequest) (res AuthorizeResult, err error) {
	defer func() { s.Metrics.observe("authorize", err) }()

	if req.AccessToken == "" {
		return AuthorizeResult{}, ErrMissingToken
	}
	if err := s.checkBlacklist(ctx, req.AccessToken); err != nil {
		return AuthorizeResult{}, err
	}

	claims, err := s.Sessions.Get(ctx, req.AccessToken)
	switch {
	case err == nil:
		return s.authorizeCached(ctx, req, claims)
	case errors.Is(err, cache.ErrMiss):
	default:
		slogx.FromContext(ctx).Error("session cache read failed", slog.Any("err", err))
		return AuthorizeResult{}, cacheFault(err)
	}

	return s.authorizeVerified(ctx, req)
}

func (s *SessionService) authorizeCached(ctx context.Context, req AuthorizeRequest, claims jwtx.Claims) (AuthorizeResult, error) {
	if claims.AccessType == jwtx.AccessSystem {
		consumed, err := s.Sessions.Consume(ctx, req.AccessToken)
		if err != nil {
			return AuthorizeResult{}, cacheFault(err)
		}
		if !consumed {
			// Another request spent it first.
			return AuthorizeResult{}, ErrTokenInvalid
		}
		s.Metrics.resolved("consumed")
		return AuthorizeResult{Claims: publicClaims(claims)}, nil
	}

	s.Metrics.resolved("cache")
	refresh, err := s.checkLinkage(ctx, req, claims)
	if err != nil {
		return AuthorizeResult{}, err
	}
	return AuthorizeResult{Claims: publicClaims(claims), Refresh: refresh}, nil
}

func (s *SessionService) authorizeVerified(ctx context.Context, req AuthorizeRequest) (AuthorizeResult, error) {
	claims, err := s.Verifier.Verify(req.AccessToken)
	if err != nil {
		if jwtx.IsExpired(err) {
			return AuthorizeResult{}, ErrTokenExpired
		}
		slogx.FromContext(ctx).Debug("access token rejected", slog.Any("err", err))
		return AuthorizeResult{}, ErrTokenInvalid
	}

	// SYSTEM tokens are only honoured while their cache entry exists.
	if claims.AccessType != jwtx.AccessUser {
		return AuthorizeResult{}, ErrTokenInvalid
	}

	s.Metrics.resolved("verified")
	refresh, err := s.checkLinkage(ctx, req, claims)
	if err != nil {
		return AuthorizeResult{}, err
	}

	if err := s.Sessions.Put(ctx, req.AccessToken, claims); err != nil {
		slogx.FromContext(ctx).Warn("failed to cache verified session", slog.Any("err", err))
	}
	return AuthorizeResult{Claims: publicClaims(claims), Refresh: refresh}, nil
}

func (s *SessionService) checkBlacklist(ctx context.Context, token string) error {
	listed, err := s.Blacklist.Contains(ctx, token)
	if err != nil {
		slogx.FromContext(ctx).Error("blacklist read failed", slog.Any("err", err))
		return cacheFault(err)
	}
	if listed {
		return ErrTokenInvalid
	}
	return nil
}

// checkLinkage confirms the access token still belongs to a live session.
// A nil cookie means the client's refresh cookie is fine as it is.
func (s *SessionService) checkLinkage(ctx context.Context, req AuthorizeRequest, claims jwtx.Claims) (*RefreshCookie, error) {
	now := s.now()
	accessHash := cryptox.FingerprintToken(req.AccessToken)

	if req.RefreshToken != "" {
		entry, err := s.Store.Ledger().FindPairing(ctx, accessHash, cryptox.FingerprintToken(req.RefreshToken), now)
		switch {
		case err == nil && entry.UserID == claims.Subject:
			return nil, nil
		case err == nil, errors.Is(err, store.ErrNotFound):
		default:
			return nil, ledgerFault(err)
		}
	}

	l := slogx.FromContext(ctx)
	var cookie *RefreshCookie
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		entry, err := tx.Ledger().FindActiveByAccessToken(ctx, accessHash, now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionUnlinked
		}
		if err != nil {
			return err
		}
		if entry.UserID != claims.Subject {
			return ErrSessionUnlinked
		}

		refresh, err := s.Issuer.IssueRefreshUntil(entry.UserID, entry.SessionID, entry.RefreshTokenExpiresAt)
		if err != nil {
			return err
		}

		next := domain.LedgerEntry{
			ID:                    idx.NewAt(now).String(),
			SessionID:             entry.SessionID,
			UserID:                entry.UserID,
			AccessTokenHash:       accessHash,
			RefreshTokenHash:      cryptox.FingerprintToken(refresh.Token),
			AccessTokenExpiresAt:  entry.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: refresh.ExpiresAt,
			Requester:             req.Requester,
			CreatedAt:             now,
		}
		if err := tx.Ledger().Supersede(ctx, entry.ID, next.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionUnlinked
			}
			return err
		}
		if err := tx.Ledger().CreateEntry(ctx, next); err != nil {
			return err
		}

		cookie = &RefreshCookie{Token: refresh.Token, ExpiresAt: refresh.ExpiresAt}
		l.Info("refresh cookie re-derived", slog.String("session_id", entry.SessionID))
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionUnlinked) {
			l.Error("session linkage repair failed", slog.Any("err", err))
		}
		return nil, txError(err)
	}
	return cookie, nil
}
