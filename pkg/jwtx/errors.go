package jwtx

import "errors"

var (
	// ErrInvalidToken is wrapped by every Decode failure, alongside one of
	// the more specific errors below.
	ErrInvalidToken = errors.New("jwtx: invalid token")

	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")

	// Construction errors.
	ErrUnsupportedAlg = errors.New("jwtx: unsupported signing algorithm")
	ErrEmptySecret    = errors.New("jwtx: empty signing secret")
)
