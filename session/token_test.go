package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"

	"merchant-dashboard/session"
)

func TestStoredToken_Live(t *testing.T) {
	now := time.Now()
	tok := session.NewStoredToken("T1", now, time.Hour)

	require.True(t, tok.Live(now))
	require.True(t, tok.Live(now.Add(59*time.Minute)))
	require.False(t, tok.Live(now.Add(61*time.Minute)))
	require.False(t, session.StoredToken{}.Live(now))
}

func TestNewStoredToken_OpaqueValueGetsMaxAge(t *testing.T) {
	now := time.Now()
	tok := session.NewStoredToken("not-a-jwt", now, 8*time.Hour)

	require.WithinDuration(t, now.Add(8*time.Hour), tok.ExpiresAt, time.Second)
	require.WithinDuration(t, now, tok.IssuedAt, time.Second)
}

func TestNewStoredToken_TightensToExpClaim(t *testing.T) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   "merchant-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(30 * time.Minute)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	tok := session.NewStoredToken(signed, now, 8*time.Hour)
	require.WithinDuration(t, now.Add(30*time.Minute), tok.ExpiresAt, time.Second)
}

func TestNewStoredToken_KeepsMaxAgeWhenClaimIsLater(t *testing.T) {
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   "merchant-1",
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	tok := session.NewStoredToken(signed, now, 8*time.Hour)
	require.WithinDuration(t, now.Add(8*time.Hour), tok.ExpiresAt, time.Second)
}
