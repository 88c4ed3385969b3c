package authsdk

import "github.com/aussiebroadwan/tokenauth/pkg/jwtx"

// SignInRequest is the body of POST /v1/session/sign-in.
type SignInRequest struct {
	Email    string `json:"email" example:"a@x.com"`
	Password string `json:"password" example:"p1"`
}

// SessionResponse is returned by sign-in and refresh. The refresh token is
// never in the body; it travels in the refresh_token cookie.
type SessionResponse struct {
	AccessToken       string                 `json:"access_token"`
	AccessType        jwtx.AccessType        `json:"access_type" example:"USER"`
	AuthenticatedUser jwtx.AuthenticatedUser `json:"authenticated_user"`
}

// AuthorizeResponse is returned by GET /v1/session.
type AuthorizeResponse struct {
	AccessType        jwtx.AccessType        `json:"access_type" example:"USER"`
	AuthenticatedUser jwtx.AuthenticatedUser `json:"authenticated_user"`
}

type SignOutResponse struct {
	Status string `json:"status" example:"signed_out"`
}

// UserInfoResponse is returned by GET /v1/userinfo.
type UserInfoResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	AccessLevel    int    `json:"access_level"`
	EmailConfirmed bool   `json:"email_confirmed"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string            `json:"status" example:"ok"`
	Uptime  string            `json:"uptime,omitempty" example:"1h2m3s"`
	Version string            `json:"version,omitempty" example:"0.1.0"`
	Checks  map[string]string `json:"checks,omitempty"`
}
