package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/tokenauth/pkg/httpx"
)

// Error codes carried in the error_code field of every failed response.
const (
	CodeMissingBearer      = "MISSING AUTHORIZATION BEARER TOKEN"
	CodeMissingCredentials = "MISSING CREDENTIALS"
	CodeMissingRefresh     = "MISSING REFRESH TOKEN"
	CodeAlreadyBlacklisted = "TOKEN ALREADY BLACKLISTED"
	CodeAlreadyInvalid     = "TOKEN ALREADY INVALID"
	CodeInvalidBody        = "INVALID REQUEST BODY"

	CodeInvalidCredentials = "INVALID CREDENTIALS"
	CodeInvalidToken       = "INVALID TOKEN"
	CodeTokenExpired       = "TOKEN EXPIRED"
	CodeLinkageFailed      = "REFRESH TOKEN LINKAGE FAILED"
	CodePairingNotFound    = "REFRESH PAIRING NOT RECOGNIZED"

	CodeCacheUnavailable  = "CACHE UNAVAILABLE"
	CodeLedgerUnavailable = "LEDGER UNAVAILABLE"
	CodeIntegrity         = "DATA INTEGRITY VIOLATION"
	CodeInternal          = "INTERNAL SERVER ERROR"
)

// APIError is the error envelope shared by the server (to write responses)
// and the SDK client (to report them).
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"error_code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// Is matches on status and code so callers can compare a decoded response
// against the predefined values with errors.Is.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.StatusCode == t.StatusCode && e.Code == t.Code
}

// Retryable reports whether the failure is a server-side fault rather than
// a rejection of the caller's input or credentials.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= http.StatusInternalServerError
}

func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	}
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(e)
}

var (
	ErrMissingBearer      = &APIError{http.StatusBadRequest, CodeMissingBearer, "an Authorization: Bearer token is required"}
	ErrMissingCredentials = &APIError{http.StatusBadRequest, CodeMissingCredentials, "email and password are required"}
	ErrMissingRefresh     = &APIError{http.StatusBadRequest, CodeMissingRefresh, "the refresh token cookie is missing"}
	ErrAlreadyBlacklisted = &APIError{http.StatusBadRequest, CodeAlreadyBlacklisted, "the token has already been signed out"}
	ErrAlreadyInvalid     = &APIError{http.StatusBadRequest, CodeAlreadyInvalid, "the token is already invalid or expired"}
	ErrInvalidBody        = &APIError{http.StatusBadRequest, CodeInvalidBody, "the request body is not valid JSON"}

	ErrInvalidCredentials = &APIError{http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password"}
	ErrInvalidToken       = &APIError{http.StatusUnauthorized, CodeInvalidToken, "the access token is invalid or revoked"}
	ErrTokenExpired       = &APIError{http.StatusUnauthorized, CodeTokenExpired, "the access token has expired"}
	ErrLinkageFailed      = &APIError{http.StatusUnauthorized, CodeLinkageFailed, "the session could not be linked to a refresh token"}
	ErrPairingNotFound    = &APIError{http.StatusUnauthorized, CodePairingNotFound, "the access and refresh tokens do not form a known pair"}

	ErrCacheUnavailable  = &APIError{http.StatusInternalServerError, CodeCacheUnavailable, "the session cache is unavailable"}
	ErrLedgerUnavailable = &APIError{http.StatusInternalServerError, CodeLedgerUnavailable, "the token ledger is unavailable"}
	ErrIntegrity         = &APIError{http.StatusInternalServerError, CodeIntegrity, "stored session data is inconsistent"}
	ErrInternal          = &APIError{http.StatusInternalServerError, CodeInternal, "internal server error"}
)

// parseErrorResponse turns a non-2xx response body into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Code:       CodeInternal,
		Message:    fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
