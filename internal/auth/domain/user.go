package domain

import "time"

type User struct {
	ID           int64
	Name         string
	Email        string // unique, compared case-sensitively
	PasswordHash string // empty when the account has no password
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can log in with a password.
func (u User) HasPassword() bool { return u.PasswordHash != "" }
