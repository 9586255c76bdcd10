package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SupportedAlgs lists the HMAC algorithms a Codec may be configured with.
var SupportedAlgs = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// Codec signs and verifies access tokens with a shared secret. A Codec is
// immutable once built and safe for concurrent use.
type Codec struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	now    func() time.Time
	leeway time.Duration
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock replaces time.Now for issuing and validating tokens.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// WithLeeway tolerates clock skew when checking exp.
func WithLeeway(d time.Duration) Option {
	return func(c *Codec) { c.leeway = d }
}

// NewCodec returns a Codec signing with secret under alg (HS256, HS384 or
// HS512).
func NewCodec(secret []byte, alg string, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	var method *jwt.SigningMethodHMAC
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		method = jwt.SigningMethodHS256
	case jwt.SigningMethodHS384.Alg():
		method = jwt.SigningMethodHS384
	case jwt.SigningMethodHS512.Alg():
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, alg)
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Alg reports the configured signing algorithm.
func (c *Codec) Alg() string { return c.method.Alg() }

// Encode issues a signed token for subject that expires after ttl. A
// non-positive ttl means DefaultAccessTokenTTL.
func (c *Codec) Encode(subject string, userID int64, role string, ttl time.Duration) (string, error) {
	claims := NewAccessClaims(subject, userID, role, ttl, c.now())
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode verifies token and returns its claims. All failures wrap
// ErrInvalidToken.
func (c *Codec) Decode(token string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
		jwt.WithLeeway(c.leeway),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		// Pin the algorithm; a token may not pick its own verification method.
		if t.Method == nil || t.Method.Alg() != c.method.Alg() {
			return nil, ErrAlgMismatch
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, invalid(classify(err))
	}

	if err := claims.ValidateSubject(); err != nil {
		return Claims{}, invalid(err)
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return ErrInvalidClaim
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidToken, err)
}
