package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Default Argon2id parameters (OWASP minimums).
const (
	argonMemory      = 19 * 1024 // KiB
	argonIterations  = 2
	argonParallelism = 1
	argonKeyLength   = 32
	argonSaltLength  = 16
)

// Argon2Hasher produces PHC-format Argon2id strings:
//
//	$argon2id$v=19$m=<mem>,t=<iters>,p=<par>$<salt>$<hash>
type Argon2Hasher struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// NewArgon2Hasher returns an Argon2Hasher with the default parameters.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{
		Memory:      argonMemory,
		Iterations:  argonIterations,
		Parallelism: argonParallelism,
	}
}

// Hash returns a PHC-encoded Argon2id hash of password. The same 72-byte
// ceiling as bcrypt applies, so both schemes accept the same passwords.
func (h *Argon2Hasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, h.Iterations, h.Memory, h.Parallelism, argonKeyLength)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.Memory,
		h.Iterations,
		h.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encodedHash. Parameters are read
// from the hash, not from h, and bcrypt hashes are accepted too; see
// VerifyPassword.
func (h *Argon2Hasher) Verify(password, encodedHash string) bool {
	return VerifyPassword(password, encodedHash)
}

func verifyArgon2(password, encodedHash string) bool {
	p, salt, want, err := decodeArgon2(encodedHash)
	if err != nil {
		return false
	}
	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(want))) // #nosec G115
	return subtle.ConstantTimeCompare(got, want) == 1
}

func decodeArgon2(encoded string) (Argon2Hasher, []byte, []byte, error) {
	var p Argon2Hasher

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", salt, hash]
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return p, nil, nil, errors.New("invalid hash format: expected 6 parts")
	}
	if parts[1] != "argon2id" {
		return p, nil, nil, errors.New("invalid hash format: not argon2id")
	}
	if parts[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return p, nil, nil, errors.New("invalid hash format: wrong version")
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.Memory, &p.Iterations, &p.Parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("invalid hash format: parameters: %w", err)
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("invalid hash format: salt: %w", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, errors.New("invalid hash format: key")
	}
	return p, salt, key, nil
}
