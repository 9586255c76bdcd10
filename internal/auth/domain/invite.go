package domain

import "time"

// Invite binds a single-use signup token to one email address. Only the
// token's fingerprint is stored.
type Invite struct {
	ID        int64
	Email     string
	TokenHash string
	Used      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssuedInvite is returned to the administrator. Token is the raw value and
// is never persisted.
type IssuedInvite struct {
	Email    string
	Token    string
	Link     string
	Reissued bool
}

// Registration is what an invited user submits to redeem their invite.
type Registration struct {
	Email    string
	Token    string
	Name     string
	Password string
}
