package service_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenauth/internal/auth/domain"
	"github.com/aussiebroadwan/tokenauth/internal/auth/service"
	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestIssuer(t *testing.T, clock *fakeClock) (*service.TokenIssuer, jwtx.Verifier) {
	t.Helper()
	hs, err := jwtx.NewHS256(testSecret, jwtx.VerifyOptions{Issuer: testIssuer, Now: clock.Now})
	require.NoError(t, err)
	return &service.TokenIssuer{
		Signer:     hs,
		Issuer:     testIssuer,
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
		Now:        clock.Now,
	}, hs
}

func TestTokenIssuerIssue(t *testing.T) {
	clock := newFakeClock()
	issuer, verifier := newTestIssuer(t, clock)
	user := domain.User{ID: "01HZX0000000000000000000AB", AccessLevel: 5}

	pair, claims, err := issuer.Issue(user, service.IssueOptions{})
	require.NoError(t, err)

	require.NotEmpty(t, pair.SessionID)
	require.Equal(t, clock.Now(), pair.AccessIssuedAt)
	require.Equal(t, clock.Now().Add(time.Hour), pair.AccessExpiresAt)
	require.Equal(t, clock.Now(), pair.RefreshIssuedAt)
	require.Equal(t, clock.Now().Add(24*time.Hour), pair.RefreshExpiresAt)

	require.Equal(t, jwtx.AccessUser, claims.AccessType)
	require.Equal(t, testIssuer, claims.Issuer)

	got, err := verifier.Verify(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, claims.ID, got.ID)
	require.Equal(t, jwtx.AuthenticatedUser{ID: user.ID, AccessLevel: 5}, got.AuthenticatedUser)
}

func TestTokenIssuerOptions(t *testing.T) {
	clock := newFakeClock()
	issuer, _ := newTestIssuer(t, clock)
	user := domain.User{ID: "01HZX0000000000000000000AB"}

	pair, claims, err := issuer.Issue(user, service.IssueOptions{
		AccessTTL:  5 * time.Minute,
		RefreshTTL: time.Hour,
		SessionID:  "session-1",
	})
	require.NoError(t, err)
	require.Equal(t, "session-1", pair.SessionID)
	require.Equal(t, clock.Now().Add(5*time.Minute), claims.Expiry())
	require.Equal(t, clock.Now().Add(time.Hour), pair.RefreshExpiresAt)

	_, _, err = issuer.Issue(user, service.IssueOptions{AccessTTL: -time.Second})
	require.Error(t, err)

	_, _, err = issuer.Issue(user, service.IssueOptions{AccessType: "ROOT"})
	require.Error(t, err)
}

func TestTokenIssuerIssueAccess(t *testing.T) {
	clock := newFakeClock()
	issuer, verifier := newTestIssuer(t, clock)

	tok, claims, err := issuer.IssueAccess(domain.User{ID: "u1"}, jwtx.AccessSystem, time.Minute)
	require.NoError(t, err)
	require.Equal(t, jwtx.AccessSystem, claims.AccessType)

	got, err := verifier.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, jwtx.AccessSystem, got.AccessType)
}

func TestTokenIssuerIssueRefreshUntil(t *testing.T) {
	clock := newFakeClock()
	issuer, _ := newTestIssuer(t, clock)

	until := clock.Now().Add(90 * time.Minute)
	rt, err := issuer.IssueRefreshUntil("u1", "s1", until)
	require.NoError(t, err)
	require.NotEmpty(t, rt.Token)
	require.Equal(t, until, rt.ExpiresAt)

	_, err = issuer.IssueRefreshUntil("u1", "s1", clock.Now())
	require.Error(t, err)
}
