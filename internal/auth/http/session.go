package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/pkg/authsdk"
	"github.com/aussiebroadwan/tokenauth/pkg/httpx"
	"github.com/aussiebroadwan/tokenauth/pkg/slogx"
)

const maxBodyBytes = 1 << 20

// SessionHandler serves the /v1/session endpoints.
type SessionHandler struct {
	Sessions *service.SessionService
	Cookies  CookieConfig
}

func requester(r *http.Request) domain.Requester {
	return domain.Requester{UserAgent: r.UserAgent(), IPAddress: httpx.ClientIP(r)}
}

// HandleSignIn godoc
//
//	@Summary		Sign in
//	@Description	Exchanges an email and password for an access token. The refresh token is set as an HttpOnly cookie.
//	@Tags			Session
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.SignInRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.SessionResponse
//	@Failure		400		{object}	authsdk.APIError	"MISSING CREDENTIALS or INVALID REQUEST BODY"
//	@Failure		401		{object}	authsdk.APIError	"INVALID CREDENTIALS"
//	@Failure		500		{object}	authsdk.APIError
//	@Header			200		{string}	Set-Cookie	"refresh_token"
//	@Router			/v1/session/sign-in [post].
func (h *SessionHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var body authsdk.SignInRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		authsdk.ErrInvalidBody.WriteError(w)
		return
	}

	res, err := h.Sessions.SignIn(r.Context(), service.SignInRequest{
		Email:     body.Email,
		Password:  body.Password,
		Requester: requester(r),
	})
	if err != nil {
		writeServiceError(w, err, h.Cookies)
		return
	}

	h.writeSession(w, res)
}

// HandleAuthorize godoc
//
//	@Summary		Authorize an access token
//	@Description	Resolves the bearer token to its identity. When the refresh cookie no longer pairs with the token a replacement cookie is set.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.AuthorizeResponse
//	@Failure		400	{object}	authsdk.APIError	"MISSING AUTHORIZATION BEARER TOKEN"
//	@Failure		401	{object}	authsdk.APIError	"INVALID TOKEN, TOKEN EXPIRED or REFRESH TOKEN LINKAGE FAILED"
//	@Failure		500	{object}	authsdk.APIError
//	@Router			/v1/session [get].
func (h *SessionHandler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sessions.Authorize(r.Context(), service.AuthorizeRequest{
		AccessToken:  httpx.BearerToken(r),
		RefreshToken: refreshToken(r),
		Requester:    requester(r),
	})
	if err != nil {
		writeServiceError(w, err, h.Cookies)
		return
	}

	if res.Refresh != nil {
		h.Cookies.set(w, *res.Refresh)
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthorizeResponse{
		AccessType:        res.Claims.AccessType,
		AuthenticatedUser: res.Claims.AuthenticatedUser,
	})
}

// HandleRefresh godoc
//
//	@Summary		Refresh a session
//	@Description	Exchanges the current access token and refresh cookie for a new pair. Each pair can be exchanged once.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionResponse
//	@Failure		400	{object}	authsdk.APIError	"MISSING AUTHORIZATION BEARER TOKEN or MISSING REFRESH TOKEN"
//	@Failure		401	{object}	authsdk.APIError	"INVALID TOKEN or REFRESH PAIRING NOT RECOGNIZED"
//	@Failure		500	{object}	authsdk.APIError
//	@Header			200	{string}	Set-Cookie	"refresh_token"
//	@Router			/v1/session/refresh [post].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sessions.Refresh(r.Context(), service.RefreshRequest{
		AccessToken:  httpx.BearerToken(r),
		RefreshToken: refreshToken(r),
		Requester:    requester(r),
	})
	if err != nil {
		writeServiceError(w, err, h.Cookies)
		return
	}

	h.writeSession(w, res)
}

// HandleSignOut godoc
//
//	@Summary		Sign out
//	@Description	Blacklists the bearer token for the rest of its lifetime and clears the refresh cookie.
//	@Tags			Session
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.SignOutResponse
//	@Failure		400	{object}	authsdk.APIError	"MISSING AUTHORIZATION BEARER TOKEN, TOKEN ALREADY BLACKLISTED or TOKEN ALREADY INVALID"
//	@Failure		500	{object}	authsdk.APIError
//	@Router			/v1/session/sign-out [post].
func (h *SessionHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	err := h.Sessions.SignOut(r.Context(), httpx.BearerToken(r))
	if err != nil {
		// The token is dead either way, so the cookie goes too.
		if errors.Is(err, service.ErrAlreadyBlacklisted) || errors.Is(err, service.ErrAlreadyInvalid) {
			h.Cookies.clear(w)
		}
		slogx.FromContext(r.Context()).Debug("sign-out rejected", "err", err)
		writeServiceError(w, err, h.Cookies)
		return
	}

	h.Cookies.clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SignOutResponse{Status: "signed_out"})
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, res service.SessionResult) {
	h.Cookies.set(w, res.Refresh)
	httpx.WriteJSON(w, http.StatusOK, authsdk.SessionResponse{
		AccessToken:       res.AccessToken,
		AccessType:        res.Claims.AccessType,
		AuthenticatedUser: res.Claims.AuthenticatedUser,
	})
}
