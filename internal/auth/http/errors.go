package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/pkg/authsdk"
)

// apiErrors maps service sentinels to their wire representation. Order
// matters only for errors wrapping more than one sentinel.
var apiErrors = []struct {
	err error
	api *authsdk.APIError
}{
	{service.ErrMissingToken, authsdk.ErrMissingBearer},
	{service.ErrMissingCredentials, authsdk.ErrMissingCredentials},
	{service.ErrMissingRefresh, authsdk.ErrMissingRefresh},
	{service.ErrAlreadyBlacklisted, authsdk.ErrAlreadyBlacklisted},
	{service.ErrAlreadyInvalid, authsdk.ErrAlreadyInvalid},
	{service.ErrInvalidCredentials, authsdk.ErrInvalidCredentials},
	{service.ErrTokenInvalid, authsdk.ErrInvalidToken},
	{service.ErrTokenExpired, authsdk.ErrTokenExpired},
	{service.ErrSessionUnlinked, authsdk.ErrLinkageFailed},
	{service.ErrPairingNotFound, authsdk.ErrPairingNotFound},
	{service.ErrCacheUnavailable, authsdk.ErrCacheUnavailable},
	{service.ErrLedgerUnavailable, authsdk.ErrLedgerUnavailable},
	{service.ErrIntegrity, authsdk.ErrIntegrity},
}

func apiError(err error) *authsdk.APIError {
	for _, m := range apiErrors {
		if errors.Is(err, m.err) {
			return m.api
		}
	}
	return authsdk.ErrInternal
}

// writeServiceError writes the response for a failed session operation,
// clearing the refresh cookie when the rejection makes it useless.
func writeServiceError(w http.ResponseWriter, err error, cookies CookieConfig) {
	if service.ClearsRefresh(err) {
		cookies.clear(w)
	}
	apiError(err).WriteError(w)
}
