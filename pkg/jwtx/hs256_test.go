package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newHS256(t *testing.T, now func() time.Time) *jwtx.HS256 {
	t.Helper()
	h, err := jwtx.NewHS256(testSecret, jwtx.VerifyOptions{Issuer: "auth", Now: now})
	require.NoError(t, err)
	return h
}

func TestHS256RoundTrip(t *testing.T) {
	h := newHS256(t, nil)
	want := jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1", AccessLevel: 2}, jwtx.AccessUser, "auth", time.Hour, time.Now())

	tok, err := h.Sign(want)
	require.NoError(t, err)
	require.Equal(t, "HS256", h.Alg())

	got, err := h.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, want.AuthenticatedUser, got.AuthenticatedUser)
	require.Equal(t, want.AccessType, got.AccessType)
	require.Equal(t, want.ID, got.ID)
	require.Equal(t, want.Expiry(), got.Expiry())
}

func TestHS256RejectsWeakSecret(t *testing.T) {
	_, err := jwtx.NewHS256([]byte("short"), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrWeakSecret)
}

func TestHS256Expired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	h := newHS256(t, nil)

	tok, err := h.Sign(jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1"}, jwtx.AccessUser, "auth", time.Hour, issued))
	require.NoError(t, err)

	_, err = h.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrExpired)
	require.True(t, jwtx.IsExpired(err))
}

func TestHS256ExpiredAndForgedIsInvalid(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), jwtx.VerifyOptions{})
	require.NoError(t, err)

	tok, err := other.Sign(jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1"}, jwtx.AccessUser, "auth", time.Hour, issued))
	require.NoError(t, err)

	_, err = newHS256(t, nil).Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
	require.False(t, jwtx.IsExpired(err))
}

func TestHS256Tampered(t *testing.T) {
	h := newHS256(t, nil)
	tok, err := h.Sign(jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1", AccessLevel: 1}, jwtx.AccessUser, "auth", time.Hour, time.Now()))
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = h.Verify(parts[0] + "." + parts[1] + "." + string(sig))
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256RejectsOtherAlgorithms(t *testing.T) {
	claims := jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1"}, jwtx.AccessUser, "auth", time.Hour, time.Now())
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newHS256(t, nil).Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestHS256Malformed(t *testing.T) {
	_, err := newHS256(t, nil).Verify("not-a-jwt")
	require.ErrorIs(t, err, jwtx.ErrMalformed)
}

func TestHS256IssuerMismatch(t *testing.T) {
	h := newHS256(t, nil)
	tok, err := h.Sign(jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1"}, jwtx.AccessUser, "someone-else", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = h.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestHS256RefreshTokenIsNotAnAccessToken(t *testing.T) {
	h := newHS256(t, nil)
	tok, err := h.SignRefresh(jwtx.NewRefreshClaims("u1", "sid-1", "auth", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = h.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrInvalidClaim)
}

func TestHS256InjectedClock(t *testing.T) {
	issued := time.Date(2030, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := issued.Add(30 * time.Minute)
	h := newHS256(t, func() time.Time { return clock })

	tok, err := h.Sign(jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u1"}, jwtx.AccessSystem, "auth", time.Hour, issued))
	require.NoError(t, err)

	c, err := h.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, jwtx.AccessSystem, c.AccessType)

	clock = issued.Add(61 * time.Minute)
	_, err = h.Verify(tok)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}
