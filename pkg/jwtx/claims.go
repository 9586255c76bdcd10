package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the lifetime applied when a caller passes a
// non-positive TTL to Codec.Encode.
const DefaultAccessTokenTTL = time.Hour

// Claims are the access-token claims. "sub" carries the user's email; "id"
// and "role" are informational only and must not be trusted for
// authorization without re-reading the user record.
type Claims struct {
	jwt.RegisteredClaims

	// Store-assigned user identifier.
	UserID int64 `json:"id"`

	// Role at the time of issue ("user" or "admin").
	Role string `json:"role,omitempty"`
}

// NewAccessClaims builds claims valid from now until now+ttl.
func NewAccessClaims(subject string, userID int64, role string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Role:   role,
	}
}

// ValidateSubject ensures the token names a principal.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}
