package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// Refresh rotates a token pair. The (access, refresh) pair must match a live
// ledger entry exactly, and each pair can be exchanged once.
func (s *SessionService) Refresh(ctx context.Context, req RefreshRequest) (res SessionResult, err error) {
	defer func() { s.Metrics.observe("refresh", err) }()

	if req.AccessToken == "" {
		return SessionResult{}, ErrMissingToken
	}
	if req.RefreshToken == "" {
		return SessionResult{}, ErrMissingRefresh
	}
	if err := s.checkBlacklist(ctx, req.AccessToken); err != nil {
		return SessionResult{}, err
	}

	l := slogx.FromContext(ctx)
	now := s.now()

	prev, err := s.Store.Ledger().FindPairing(ctx,
		cryptox.FingerprintToken(req.AccessToken),
		cryptox.FingerprintToken(req.RefreshToken),
		now,
	)
	if errors.Is(err, store.ErrNotFound) {
		return SessionResult{}, ErrPairingNotFound
	}
	if err != nil {
		l.Error("ledger lookup failed", slog.Any("err", err))
		return SessionResult{}, ledgerFault(err)
	}

	ctx = slogx.WithUser(ctx, prev.UserID)
	l = slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, prev.UserID)
	if errors.Is(err, store.ErrNotFound) {
		l.Error("ledger entry references a missing user", slog.String("entry_id", prev.ID))
		return SessionResult{}, ErrIntegrity
	}
	if err != nil {
		l.Error("user lookup failed", slog.Any("err", err))
		return SessionResult{}, ledgerFault(err)
	}

	pair, claims, err := s.Issuer.Issue(user, IssueOptions{AccessType: jwtx.AccessUser, SessionID: prev.SessionID})
	if err != nil {
		return SessionResult{}, err
	}

	next := newLedgerEntry(user.ID, pair, req.Requester, now)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Ledger().Supersede(ctx, prev.ID, next.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrPairingNotFound
			}
			return err
		}
		return tx.Ledger().CreateEntry(ctx, next)
	})
	if err != nil {
		if !errors.Is(err, ErrPairingNotFound) {
			l.Error("token rotation failed", slog.Any("err", err))
		}
		return SessionResult{}, txError(err)
	}

	// The old pair is already spent, so cache trouble from here on must not
	// fail the exchange.
	if err := s.Sessions.Drop(ctx, req.AccessToken); err != nil {
		l.Warn("failed to drop rotated session", slog.Any("err", err))
	}
	if err := s.Sessions.Put(ctx, pair.AccessToken, claims); err != nil {
		l.Warn("failed to cache rotated session", slog.Any("err", err))
	}

	s.Metrics.tokenIssued(claims.AccessType)
	l.Info("session refreshed", slog.String("session_id", pair.SessionID))

	return sessionResult(pair, claims), nil
}
