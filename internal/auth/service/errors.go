package service

import "errors"

// Errors surfaced to callers. Handlers map each to one HTTP status.
var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidInvite      = errors.New("invalid or used invite token")
	ErrUserExists         = errors.New("user already exists")
	ErrForbidden          = errors.New("insufficient privileges")
	ErrValidation         = errors.New("validation failed")
)
