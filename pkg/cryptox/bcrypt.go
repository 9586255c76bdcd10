package cryptox

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when NewBcryptHasher is given a cost outside
// bcrypt's accepted range.
const DefaultBcryptCost = 12

// BcryptHasher hashes passwords with bcrypt at a fixed cost.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a BcryptHasher. Costs outside
// [bcrypt.MinCost, bcrypt.MaxCost] fall back to DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{Cost: cost}
}

// Hash returns the bcrypt encoding of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches encodedHash. Argon2id hashes are
// accepted too; see VerifyPassword.
func (h *BcryptHasher) Verify(password, encodedHash string) bool {
	return VerifyPassword(password, encodedHash)
}

func verifyBcrypt(password, encodedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)) == nil
}
