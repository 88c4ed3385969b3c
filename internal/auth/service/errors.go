package service

import (
	"errors"
	"fmt"
)

var (
	// Client input errors.
	ErrMissingCredentials = errors.New("missing_credentials")
	ErrMissingToken       = errors.New("missing_token")
	ErrMissingRefresh     = errors.New("missing_refresh_token")
	ErrAlreadyBlacklisted = errors.New("already_blacklisted")
	ErrAlreadyInvalid     = errors.New("already_invalid")

	// Authentication rejections.
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrTokenInvalid       = errors.New("token_invalid")
	ErrTokenExpired       = errors.New("token_expired")
	ErrSessionUnlinked    = errors.New("session_unlinked")
	ErrPairingNotFound    = errors.New("pairing_not_found")

	// Infrastructure faults.
	ErrCacheUnavailable  = errors.New("cache_unavailable")
	ErrLedgerUnavailable = errors.New("ledger_unavailable")
	ErrLookupFailed      = errors.New("lookup_failed")
	ErrIntegrity         = errors.New("integrity_violation")
)

// outcomes lists every sentinel in the order they are matched when labelling
// metrics.
var outcomes = []error{
	ErrMissingCredentials, ErrMissingToken, ErrMissingRefresh,
	ErrAlreadyBlacklisted, ErrAlreadyInvalid,
	ErrInvalidCredentials, ErrTokenInvalid, ErrTokenExpired,
	ErrSessionUnlinked, ErrPairingNotFound,
	ErrCacheUnavailable, ErrLedgerUnavailable, ErrLookupFailed, ErrIntegrity,
}

// ClearsRefresh reports whether a rejection means the client's refresh
// cookie is useless and should be removed. An expired access token keeps
// the cookie so the client can still refresh.
func ClearsRefresh(err error) bool {
	return errors.Is(err, ErrTokenInvalid) ||
		errors.Is(err, ErrSessionUnlinked) ||
		errors.Is(err, ErrPairingNotFound)
}

func cacheFault(err error) error {
	return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
}

func ledgerFault(err error) error {
	if errors.Is(err, ErrLedgerUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
}
