package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// SystemToken is a single-use access token for machine callers.
type SystemToken struct {
	AccessToken string
	Claims      jwtx.Claims
}

// IssueSystemToken mints a SYSTEM token for userID and registers it in the
// session cache. The first successful authorization consumes it. No ledger
// entry is written since the token can never be refreshed.
func (s *SessionService) IssueSystemToken(ctx context.Context, userID string, ttl time.Duration) (tok SystemToken, err error) {
	defer func() { s.Metrics.observe("issue_system", err) }()

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SystemToken{}, fmt.Errorf("user %q: %w", userID, err)
		}
		return SystemToken{}, ledgerFault(err)
	}

	access, claims, err := s.Issuer.IssueAccess(user, jwtx.AccessSystem, ttl)
	if err != nil {
		return SystemToken{}, err
	}
	if err := s.Sessions.Put(ctx, access, claims); err != nil {
		return SystemToken{}, cacheFault(err)
	}

	s.Metrics.tokenIssued(claims.AccessType)
	slogx.FromContext(ctx).Info("system token issued",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", claims.Expiry()),
	)
	return SystemToken{AccessToken: access, Claims: claims}, nil
}
