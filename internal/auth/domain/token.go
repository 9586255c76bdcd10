package domain

import "time"

// TokenTypeBearer is the token_type returned by login.
const TokenTypeBearer = "bearer"

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	TokenType string
	ExpiresIn time.Duration
}
