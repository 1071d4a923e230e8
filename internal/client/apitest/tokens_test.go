package apitest

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	u := models.User{ID: "user-123", Email: "a@b.c", Role: models.RoleAdmin}

	tok, err := generateToken(u, "jti-1", time.Hour)
	require.NoError(t, err)

	got, err := userIDFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestUserIDFromToken_Expired(t *testing.T) {
	tok, err := generateToken(models.User{ID: "u1"}, "jti-1", -time.Second)
	require.NoError(t, err)

	_, err = userIDFromToken(tok)
	assert.Error(t, err)
}

func TestUserIDFromToken_Garbage(t *testing.T) {
	_, err := userIDFromToken("not-a-jwt")
	assert.Error(t, err)
}

func TestIssueToken_UniqueAndRevocable(t *testing.T) {
	s := New(t)
	u := s.AddUser("Ana", "ana@example.com", "pw", models.RoleUser)

	a, b := s.IssueToken(u.ID), s.IssueToken(u.ID)
	assert.NotEqual(t, a, b)

	s.Expire(a)
	s.mu.Lock()
	_, liveA := s.tokens[a]
	_, liveB := s.tokens[b]
	s.mu.Unlock()
	assert.False(t, liveA)
	assert.True(t, liveB)
}
