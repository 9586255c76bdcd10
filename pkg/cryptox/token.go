package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// InviteTokenBytes is the entropy of an invite token. Encoded it is 43
// base64url characters.
const InviteTokenBytes = 32

// ErrTokenSize is returned by RandomToken for a non-positive size.
var ErrTokenSize = errors.New("cryptox: token size must be positive")

var b64 = base64.RawURLEncoding

// RandomToken returns n bytes from crypto/rand as unpadded base64url, safe to
// place in a query string unescaped.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", ErrTokenSize
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return b64.EncodeToString(buf), nil
}

// NewInviteToken returns a fresh invite token and the fingerprint to persist
// in its place.
func NewInviteToken() (token, fingerprint string, err error) {
	token, err = RandomToken(InviteTokenBytes)
	if err != nil {
		return "", "", err
	}
	return token, FingerprintToken(token), nil
}

// FingerprintToken is the SHA-256 of token as unpadded base64url. Lookups go
// through the fingerprint so the database never holds a redeemable token.
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return b64.EncodeToString(sum[:])
}
