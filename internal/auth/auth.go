// Package auth issues and verifies the HS256 tokens carried by store staff
// and platform admins, and exposes the capability check the rest of the
// system uses to authorize store-scoped operations.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleSuperadmin marks platform-level accounts not bound to any store.
const RoleSuperadmin = "superadmin"

// ErrInvalidToken is returned when a token fails parsing, signature or
// claim validation.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload for store users and admins.
type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	StoreID string `json:"store_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthorizedFor reports whether the principal may act on the given store.
// Superadmins may act on any store; everyone else only on their own.
func (c *Claims) AuthorizedFor(storeID string) bool {
	if c.Role == RoleSuperadmin {
		return true
	}
	return c.StoreID != "" && c.StoreID == storeID
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given signing secret and
// token lifetime.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// NewTokenServiceWithClock creates a TokenService with an injected clock.
// Primarily used for testing expiry behavior.
func NewTokenServiceWithClock(secret string, ttl time.Duration, now func() time.Time) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: now}
}

// Sign issues a token for the given identity.
func (s *TokenService) Sign(userID, email, name, role, storeID string) (string, error) {
	now := s.now()
	claims := &Claims{
		Email:   email,
		Name:    name,
		Role:    role,
		StoreID: storeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, rejecting any non-HMAC signing
// method before checking the signature.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
