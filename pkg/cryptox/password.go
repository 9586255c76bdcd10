package cryptox

import (
	"errors"
	"strings"
)

// MaxPasswordBytes is the largest input bcrypt will hash. Longer inputs are
// rejected rather than silently truncated.
const MaxPasswordBytes = 72

var (
	// ErrPasswordTooLong is returned by Hash when the input exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("cryptox: password exceeds 72 bytes")
	// ErrUnknownHasher is returned by NewPasswordHasher for an unsupported scheme.
	ErrUnknownHasher = errors.New("cryptox: unknown password hasher")
)

// PasswordHasher turns plaintext passwords into salted one-way hashes and
// checks plaintext candidates against them.
//
// Hash always produces the hasher's own scheme. Verify accepts any scheme
// this package can produce, selected by the stored hash's prefix, so stored
// hashes keep working after the configured scheme changes. Verify never
// returns an error: a mismatch, a malformed hash and an over-long candidate
// all report false.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) bool
}

// Supported hasher names for NewPasswordHasher.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

// NewPasswordHasher returns the hasher registered under name. An empty name
// selects bcrypt. bcryptCost is ignored by argon2id.
func NewPasswordHasher(name string, bcryptCost int) (PasswordHasher, error) {
	switch name {
	case "", HasherBcrypt:
		return NewBcryptHasher(bcryptCost), nil
	case HasherArgon2id:
		return NewArgon2Hasher(), nil
	default:
		return nil, ErrUnknownHasher
	}
}

// VerifyPassword reports whether password matches encodedHash, picking the
// scheme from the hash prefix: "$argon2id$" for Argon2id and "$2a$", "$2b$"
// or "$2y$" for bcrypt. Unrecognised encodings report false.
func VerifyPassword(password, encodedHash string) bool {
	if len(password) > MaxPasswordBytes {
		return false
	}
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return verifyArgon2(password, encodedHash)
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return verifyBcrypt(password, encodedHash)
	default:
		return false
	}
}
