package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Repositories is the data access surface shared by a Store and a Tx, so
// service code reads the same inside and outside a transaction.
type Repositories interface {
	Users() Users
	Invites() Invites
}

// Store is the root data access interface implemented by the sqlite and
// postgres drivers.
type Store interface {
	Repositories

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST call Commit() or
	// Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is an open transaction. It cannot start another.
type Tx interface {
	Repositories
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByEmail matches the email exactly.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u and returns it with its store-assigned ID and
	// timestamps. A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// UpdateRole returns ErrNotFound if no user has the id.
	UpdateRole(ctx context.Context, id int64, role domain.Role) error

	// SetActive returns ErrNotFound if no user has the id.
	SetActive(ctx context.Context, id int64, active bool) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Invites interface {
	GetInviteByEmail(ctx context.Context, email string) (domain.Invite, error)

	// GetUnusedInviteByTokenHash only returns invites that have not been
	// redeemed.
	GetUnusedInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error)

	// CreateInvite inserts a fresh, unused invite. A duplicate email or
	// token hash yields ErrAlreadyExists.
	CreateInvite(ctx context.Context, inv domain.Invite) (domain.Invite, error)

	// ReissueInvite replaces the token hash and resets used to false.
	ReissueInvite(ctx context.Context, id int64, tokenHash string) error

	// MarkInviteUsed flips used to true only if it is currently false and
	// the invite still carries tokenHash. It returns ErrNotFound when the
	// invite does not exist, was already used, or was reissued, which is how
	// concurrent redemptions and superseded tokens lose.
	MarkInviteUsed(ctx context.Context, id int64, tokenHash string) error
}
