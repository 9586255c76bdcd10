package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewAccessClaims(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("explicit ttl", func(t *testing.T) {
		c := jwtx.NewAccessClaims("a@x.io", 7, "admin", 10*time.Minute, now)
		require.Equal(t, "a@x.io", c.Subject)
		require.Equal(t, int64(7), c.UserID)
		require.Equal(t, "admin", c.Role)
		require.Equal(t, now, c.IssuedAt.Time)
		require.Equal(t, now.Add(10*time.Minute), c.ExpiresAt.Time)
	})

	t.Run("default ttl", func(t *testing.T) {
		c := jwtx.NewAccessClaims("a@x.io", 7, "user", 0, now)
		require.Equal(t, now.Add(jwtx.DefaultAccessTokenTTL), c.ExpiresAt.Time)
		require.Equal(t, time.Hour, jwtx.DefaultAccessTokenTTL)
	})
}

func TestValidateSubject(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.io"}}
		require.NoError(t, c.ValidateSubject())
	})

	t.Run("missing", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.ErrorIs(t, c.ValidateSubject(), jwtx.ErrInvalidClaim)
	})
}
