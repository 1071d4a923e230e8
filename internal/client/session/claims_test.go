package session

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func TestParseClaims_JWT(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	tok := signToken(t, jwt.MapClaims{
		"sub":   "user-1",
		"email": "ana@example.com",
		"role":  "USER",
		"exp":   exp.Unix(),
	})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.Subject)
	assert.Equal(t, "ana@example.com", c.Email)
	assert.Equal(t, "USER", c.Role)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.False(t, c.Expired(time.Now(), 0))
	assert.True(t, c.Expired(exp.Add(time.Second), 0))
	assert.True(t, c.Expired(exp.Add(-10*time.Second), 30*time.Second), "leeway expires early")
}

func TestParseClaims_ExpiredTokenStillDecodes(t *testing.T) {
	tok := signToken(t, jwt.MapClaims{"sub": "u", "exp": time.Now().Add(-time.Hour).Unix()})

	c, err := ParseClaims(tok)
	require.NoError(t, err)
	assert.True(t, c.Expired(time.Now(), 0))
}

func TestParseClaims_Opaque(t *testing.T) {
	_, err := ParseClaims("not-a-jwt")
	require.ErrorIs(t, err, common.ErrInvalidToken)

	_, err = ParseClaims("")
	require.ErrorIs(t, err, common.ErrNoToken)
}

func TestClaims_NoExpiryNeverExpires(t *testing.T) {
	var c *Claims
	assert.False(t, c.Expired(time.Now(), 0))
	assert.False(t, (&Claims{}).Expired(time.Now(), time.Hour))
}

func TestSession_Claims(t *testing.T) {
	s, _ := newSession(t)
	require.NoError(t, s.Set(context.Background(), signToken(t, jwt.MapClaims{"sub": "abc"})))

	c, err := s.Claims()
	require.NoError(t, err)
	assert.Equal(t, "abc", c.Subject)
}
