package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// issueAttempts bounds retries when two admins invite the same new email at
// once and the second insert hits the unique constraint.
const issueAttempts = 2

type InviteService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher

	// SignupURL is the page invitees are sent to; the token is appended as
	// the "token" query parameter.
	SignupURL string
}

// IssueInvite creates an invite for email, or replaces the token of the
// existing one. Reissuing invalidates the previous token and makes the invite
// redeemable again.
func (s *InviteService) IssueInvite(ctx context.Context, email string) (domain.IssuedInvite, error) {
	log := slogx.FromContext(ctx)

	if email == "" {
		return domain.IssuedInvite{}, fmt.Errorf("%w: email is required", ErrValidation)
	}

	var (
		issued domain.IssuedInvite
		err    error
	)
	for range issueAttempts {
		issued, err = s.issueOnce(ctx, email)
		if !errors.Is(err, store.ErrAlreadyExists) {
			break
		}
		log.Warn("invite issue raced, retrying", slog.String("email", email))
	}
	if err != nil {
		log.Error("failed to issue invite", slog.String("email", email), slog.Any("error", err))
		return domain.IssuedInvite{}, err
	}

	issued.Link, err = s.signupLink(issued.Token)
	if err != nil {
		return domain.IssuedInvite{}, err
	}

	log.Info("invite issued",
		slog.String("email", email),
		slog.Bool("reissued", issued.Reissued),
	)
	return issued, nil
}

func (s *InviteService) issueOnce(ctx context.Context, email string) (domain.IssuedInvite, error) {
	// 1. Fresh token every attempt; only its fingerprint is stored.
	token, fingerprint, err := cryptox.NewInviteToken()
	if err != nil {
		return domain.IssuedInvite{}, err
	}

	issued := domain.IssuedInvite{Email: email, Token: token}

	// 2. Create or reissue atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Invites().GetInviteByEmail(ctx, email)
		switch {
		case err == nil:
			issued.Reissued = true
			return tx.Invites().ReissueInvite(ctx, existing.ID, fingerprint)
		case errors.Is(err, store.ErrNotFound):
			_, err := tx.Invites().CreateInvite(ctx, domain.Invite{Email: email, TokenHash: fingerprint})
			return err
		default:
			return err
		}
	})
	return issued, err
}

func (s *InviteService) signupLink(token string) (string, error) {
	u, err := url.Parse(s.SignupURL)
	if err != nil {
		return "", fmt.Errorf("parse signup url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RedeemInvite creates an account for an invited email. The user is created
// and the invite consumed in one transaction; if either step loses a race
// neither is applied.
func (s *InviteService) RedeemInvite(ctx context.Context, reg domain.Registration) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input
	if reg.Email == "" || reg.Token == "" || reg.Name == "" || reg.Password == "" {
		return domain.User{}, fmt.Errorf("%w: email, token, name and password are required", ErrValidation)
	}

	// 2. Look up the unused invite by token fingerprint. This read only
	// rejects early; step 6 repeats it under the transaction.
	fingerprint := cryptox.FingerprintToken(reg.Token)
	invite, err := s.Store.Invites().GetUnusedInviteByTokenHash(ctx, fingerprint)
	if errors.Is(err, store.ErrNotFound) {
		log.Warn("signup with unknown or used invite token")
		return domain.User{}, ErrInvalidInvite
	}
	if err != nil {
		log.Error("failed to fetch invite", slog.Any("error", err))
		return domain.User{}, err
	}

	// 3. The token only works for the address it was issued to
	if invite.Email != reg.Email {
		log.Warn("signup email does not match invite", slog.Int64("invite_id", invite.ID))
		return domain.User{}, ErrInvalidInvite
	}

	// 4. Refuse if the account already exists
	if _, err := s.Store.Users().GetUserByEmail(ctx, reg.Email); err == nil {
		log.Warn("signup for existing account", slog.String("email", reg.Email))
		return domain.User{}, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check existing user", slog.Any("error", err))
		return domain.User{}, err
	}

	// 5. Hash outside the transaction; it is the slow part
	hash, err := s.Hasher.Hash(reg.Password)
	if errors.Is(err, cryptox.ErrPasswordTooLong) {
		return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	// 6. Re-read the invite, create the user and consume the invite
	// atomically. A reissue since step 2 changes the fingerprint, so the
	// superseded token fails here.
	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.Invites().GetUnusedInviteByTokenHash(ctx, fingerprint)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidInvite
		}
		if err != nil {
			return err
		}
		if current.ID != invite.ID || current.Email != reg.Email {
			return ErrInvalidInvite
		}

		created, err := tx.Users().CreateUser(ctx, domain.User{
			Name:         reg.Name,
			Email:        reg.Email,
			PasswordHash: hash,
			Role:         domain.RoleUser,
			IsActive:     true,
		})
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUserExists
		}
		if err != nil {
			return err
		}

		if err := tx.Invites().MarkInviteUsed(ctx, invite.ID, fingerprint); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidInvite
			}
			return err
		}

		user = created
		return nil
	})
	switch {
	case errors.Is(err, ErrUserExists), errors.Is(err, ErrInvalidInvite):
		log.Warn("signup lost a concurrent redemption", slog.Int64("invite_id", invite.ID))
		return domain.User{}, err
	case err != nil:
		log.Error("failed to redeem invite", slog.Int64("invite_id", invite.ID), slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user registered via invite",
		slog.Int64("user_id", user.ID),
		slog.Int64("invite_id", invite.ID),
	)
	return user, nil
}
