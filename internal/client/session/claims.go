package session

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client looks at.
type Claims struct {
	Subject   string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now, allowing
// leeway for clock skew. Tokens without an exp claim never expire here.
func (c *Claims) Expired(now time.Time, leeway time.Duration) bool {
	if c == nil || c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(c.ExpiresAt.Add(-leeway))
}

type accessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a JWT payload without verifying its signature.
// Opaque (non-JWT) tokens return common.ErrInvalidToken.
func ParseClaims(token string) (*Claims, error) {
	if token == "" {
		return nil, common.ErrNoToken
	}

	var ac accessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &ac); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	c := &Claims{Subject: ac.Subject, Email: ac.Email, Role: ac.Role}
	if ac.IssuedAt != nil {
		c.IssuedAt = ac.IssuedAt.Time
	}
	if ac.ExpiresAt != nil {
		c.ExpiresAt = ac.ExpiresAt.Time
	}
	return c, nil
}

// Claims decodes the held token.
func (s *Session) Claims() (*Claims, error) {
	return ParseClaims(s.Token())
}
