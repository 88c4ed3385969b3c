package authsdk

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
)

// Session holds an access token and refreshes it once, transparently, when
// the server reports it expired.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	accessType  jwtx.AccessType
	user        jwtx.AuthenticatedUser
}

func newSession(c *SDKClient, resp SessionResponse) *Session {
	return &Session{
		client:      c,
		accessToken: resp.AccessToken,
		accessType:  resp.AccessType,
		user:        resp.AuthenticatedUser,
	}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) User() jwtx.AuthenticatedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Authorize validates the session's token with the server.
func (s *Session) Authorize(ctx context.Context) (*AuthorizeResponse, error) {
	var out AuthorizeResponse
	if err := s.do(ctx, http.MethodGet, "/v1/session", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserInfo returns the profile of the signed-in user.
func (s *Session) UserInfo(ctx context.Context) (*UserInfoResponse, error) {
	var out UserInfoResponse
	if err := s.do(ctx, http.MethodGet, "/v1/userinfo", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges the current access token and the refresh cookie for a
// new pair.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *Session) refreshLocked(ctx context.Context) error {
	resp, err := s.client.doRequestWithToken(ctx, http.MethodPost, "/v1/session/refresh", s.accessToken, nil, nil)
	if err != nil {
		return err
	}

	var out SessionResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return err
	}
	s.accessToken = out.AccessToken
	s.accessType = out.AccessType
	s.user = out.AuthenticatedUser
	return nil
}

// SignOut revokes the access token. The session is unusable afterwards.
func (s *Session) SignOut(ctx context.Context) error {
	resp, err := s.client.doRequestWithToken(ctx, http.MethodPost, "/v1/session/sign-out", s.AccessToken(), nil, nil)
	if err != nil {
		return err
	}
	var out SignOutResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// do runs an authenticated GET, refreshing once on TOKEN EXPIRED.
func (s *Session) do(ctx context.Context, method, path string, target any) error {
	token := s.AccessToken()
	err := s.get(ctx, method, path, token, target)
	if !errors.Is(err, ErrTokenExpired) {
		return err
	}

	s.mu.Lock()
	// Another caller may already have rotated the token.
	if s.accessToken == token {
		if rerr := s.refreshLocked(ctx); rerr != nil {
			s.mu.Unlock()
			return rerr
		}
	}
	token = s.accessToken
	s.mu.Unlock()

	return s.get(ctx, method, path, token, target)
}

func (s *Session) get(ctx context.Context, method, path, token string, target any) error {
	resp, err := s.client.doRequestWithToken(ctx, method, path, token, nil, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
