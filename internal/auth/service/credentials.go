package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/store"
	"github.com/aussiebroadwan/tokenauth/pkg/cryptox"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

// CredentialVerifier checks an email and password against stored users.
type CredentialVerifier struct {
	Store store.Store
}

// VerifyCredentials returns the user when the password matches. Unknown
// emails and wrong passwords are indistinguishable to the caller, both in
// the error and in the time taken.
func (v *CredentialVerifier) VerifyCredentials(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	user, err := v.Store.Users().GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyDummy(password)
			return domain.User{}, ErrInvalidCredentials
		}
		l.Error("user lookup failed", slog.Any("err", err))
		return domain.User{}, ErrLookupFailed
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			// A malformed stored hash is an operator problem, not a client one.
			l.Error("stored password hash unusable", slog.String("user_id", user.ID), slog.Any("err", err))
		}
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}
