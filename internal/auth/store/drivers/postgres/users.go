package postgres

import (
	"context"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, name, email, password_hash, role, is_active, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		hash *string
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	u.Role = domain.Role(role)
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	created, err := scanUser(r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		u.Name, u.Email, nullable(u.PasswordHash), string(u.Role), u.IsActive,
	))
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	return created, nil
}

func (r *usersRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return requireOneRow(r.db.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = now() WHERE id = $2`, string(role), id))
}

func (r *usersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return requireOneRow(r.db.Exec(ctx,
		`UPDATE users SET is_active = $1, updated_at = now() WHERE id = $2`, active, id))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
		return false, err
	}
	return !exists, nil
}
