package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/tokenauth/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 600, time.UTC)
	user := jwtx.AuthenticatedUser{ID: "u1", AccessLevel: 3}

	c := jwtx.NewAccessClaims(user, jwtx.AccessUser, "auth", time.Hour, now)

	require.Equal(t, "u1", c.Subject)
	require.Equal(t, "auth", c.Issuer)
	require.Equal(t, jwtx.AccessUser, c.AccessType)
	require.Equal(t, user, c.AuthenticatedUser)
	require.Equal(t, now.Truncate(time.Second), c.Issued())
	require.Equal(t, time.Hour, c.Expiry().Sub(c.Issued()))
	require.NotEmpty(t, c.ID)
	require.NoError(t, c.Validate())
}

func TestNewJTIUnique(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := jwtx.NewJTI()
		require.False(t, seen[id])
		seen[id] = true
	}
}

func TestClaimsRemaining(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewAccessClaims(jwtx.AuthenticatedUser{ID: "u"}, jwtx.AccessUser, "", time.Hour, now)

	require.InDelta(t, float64(time.Hour), float64(c.Remaining(now)), float64(time.Second))
	require.Zero(t, c.Remaining(now.Add(2*time.Hour)))
}

func TestClaimsValidate(t *testing.T) {
	base := jwtx.Claims{
		RegisteredClaims:  jwt.RegisteredClaims{Subject: "u1"},
		AccessType:        jwtx.AccessSystem,
		AuthenticatedUser: jwtx.AuthenticatedUser{ID: "u1"},
	}
	require.NoError(t, base.Validate())

	t.Run("unknown access type", func(t *testing.T) {
		c := base
		c.AccessType = "ADMIN"
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("missing user", func(t *testing.T) {
		c := base
		c.AuthenticatedUser.ID = ""
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})

	t.Run("subject mismatch", func(t *testing.T) {
		c := base
		c.Subject = "someone-else"
		require.ErrorIs(t, c.Validate(), jwtx.ErrInvalidClaim)
	})
}
