package postgres

import (
	"context"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/jackc/pgx/v5"
)

const inviteColumns = `id, email, token_hash, is_used, created_at, updated_at`

type invitesRepo struct {
	db dbtx
}

func scanInvite(row pgx.Row) (domain.Invite, error) {
	var inv domain.Invite
	if err := row.Scan(&inv.ID, &inv.Email, &inv.TokenHash, &inv.Used, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return domain.Invite{}, mapNotFound(err)
	}
	return inv, nil
}

func (r *invitesRepo) GetInviteByEmail(ctx context.Context, email string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE email = $1`, email))
}

func (r *invitesRepo) GetUnusedInviteByTokenHash(ctx context.Context, hash string) (domain.Invite, error) {
	return scanInvite(r.db.QueryRow(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE token_hash = $1 AND NOT is_used`, hash))
}

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) (domain.Invite, error) {
	created, err := scanInvite(r.db.QueryRow(ctx,
		`INSERT INTO invites (email, token_hash) VALUES ($1, $2) RETURNING `+inviteColumns,
		inv.Email, inv.TokenHash,
	))
	if err != nil {
		return domain.Invite{}, mapConstraint(err)
	}
	return created, nil
}

func (r *invitesRepo) ReissueInvite(ctx context.Context, id int64, tokenHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE invites SET token_hash = $1, is_used = FALSE, updated_at = now() WHERE id = $2`,
		tokenHash, id)
	return requireOneRow(tag, mapConstraint(err))
}

func (r *invitesRepo) MarkInviteUsed(ctx context.Context, id int64, tokenHash string) error {
	return requireOneRow(r.db.Exec(ctx,
		`UPDATE invites SET is_used = TRUE, updated_at = now()
		 WHERE id = $1 AND token_hash = $2 AND NOT is_used`, id, tokenHash))
}
