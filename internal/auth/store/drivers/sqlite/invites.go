package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
)

const inviteColumns = `id, email, token_hash, is_used, created_at, updated_at`

type invitesRepo struct {
	db dbtx
}

func scanInvite(row *sql.Row) (domain.Invite, error) {
	var inv domain.Invite
	if err := row.Scan(&inv.ID, &inv.Email, &inv.TokenHash, &inv.Used, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) GetInviteByEmail(ctx context.Context, email string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE email = ?`, email))
}

func (r *invitesRepo) GetUnusedInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = ? AND is_used = 0`, hash))
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) (domain.Invite, error) {
	now := time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO invites (email, token_hash, is_used, created_at, updated_at)
		 VALUES (?, ?, 0, ?, ?)`,
		inv.Email, inv.TokenHash, now, now,
	)
	if err != nil {
		return domain.Invite{}, mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Invite{}, err
	}
	inv.ID, inv.Used, inv.CreatedAt, inv.UpdatedAt = id, false, now, now
	return inv, nil
}

func (r *invitesRepo) ReissueInvite(ctx context.Context, id int64, tokenHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invites SET token_hash = ?, is_used = 0, updated_at = ? WHERE id = ?`,
		tokenHash, time.Now().UTC(), id)
	return requireOneRow(res, mapConstraint(err))
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, id int64, tokenHash string) error {
	return requireOneRow(r.db.ExecContext(ctx,
		`UPDATE invites SET is_used = 1, updated_at = ?
		 WHERE id = ? AND token_hash = ? AND is_used = 0`,
		time.Now().UTC(), id, tokenHash))
}
