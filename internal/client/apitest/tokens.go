package apitest

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of access tokens the fake issues.
const DefaultTokenTTL = 15 * time.Minute

var signingKey = []byte("apitest-signing-key")

var errTokenInvalid = errors.New("invalid token")

type accessClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// generateToken signs an HS256 access token for u. id becomes the jti so
// tokens minted within the same second still differ.
func generateToken(u models.User, id string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email: u.Email,
		Role:  string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	return token.SignedString(signingKey)
}

// userIDFromToken verifies signature and expiry and returns the subject.
func userIDFromToken(tokenString string) (string, error) {
	claims := &accessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errTokenInvalid
	}

	return claims.Subject, nil
}

func (s *Server) issueLocked(userID string) string {
	s.seq++

	u := models.User{ID: userID}
	if acc := s.userByIDLocked(userID); acc != nil {
		u = acc.user
	}

	tok, err := generateToken(u, fmt.Sprintf("at-%d", s.seq), s.tokenTTL)
	if err != nil {
		panic(fmt.Sprintf("apitest: sign token: %v", err))
	}
	s.tokens[tok] = userID
	return tok
}

// TokenTTL sets the lifetime of tokens issued from now on. A negative ttl
// issues tokens that are already expired.
func (s *Server) TokenTTL(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = ttl
}
