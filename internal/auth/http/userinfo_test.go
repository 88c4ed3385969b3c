package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/tokenauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestUserInfo(t *testing.T) {
	ts := newTestServer(t)
	access, cookie := ts.signIn(t)

	resp := ts.do(t, request{method: http.MethodGet, path: "/v1/userinfo", token: access, refresh: cookie.Value})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out authsdk.UserInfoResponse
	decode(t, resp, &out)
	require.Equal(t, authsdk.UserInfoResponse{
		ID:             ts.userID,
		Email:          testEmail,
		AccessLevel:    2,
		EmailConfirmed: true,
	}, out)
}

func TestUserInfoRequiresSession(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, request{method: http.MethodGet, path: "/v1/userinfo"})
	requireAPIError(t, resp, authsdk.ErrMissingBearer)

	resp = ts.do(t, request{method: http.MethodGet, path: "/v1/userinfo", token: "bogus"})
	requireAPIError(t, resp, authsdk.ErrInvalidToken)
}

func TestUserInfoWithoutCookieRepairs(t *testing.T) {
	ts := newTestServer(t)
	access, _ := ts.signIn(t)

	resp := ts.do(t, request{method: http.MethodGet, path: "/v1/userinfo", token: access})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, refreshCookie(resp))
}
