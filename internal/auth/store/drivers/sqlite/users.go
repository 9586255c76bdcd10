package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
)

const userColumns = `id, name, email, password_hash, role, is_active, created_at, updated_at`

type usersRepo struct {
	db dbtx
}

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u    domain.User
		hash sql.NullString
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &hash, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.PasswordHash = hash.String
	u.Role = domain.Role(role)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""},
		string(u.Role), u.IsActive, now, now,
	)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, err
	}
	u.ID, u.CreatedAt, u.UpdatedAt = id, now, now
	return u, nil
}

func (r *usersRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`,
		string(role), time.Now().UTC(), id))
}

func (r *usersRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id))
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}
