package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

// ProvisioningService backs the operator CLI. It talks to the store
// directly and is never exposed over HTTP.
type ProvisioningService struct {
	Store  store.Store
	Hasher cryptox.PasswordHasher
}

// CreateAdmin creates an active administrator. It fails with ErrUserExists if
// the email is taken.
func (s *ProvisioningService) CreateAdmin(ctx context.Context, acct domain.AdminAccount) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if acct.Email == "" || acct.Name == "" || acct.Password == "" {
		return domain.User{}, fmt.Errorf("%w: email, name and password are required", ErrValidation)
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, acct.Email); err == nil {
		return domain.User{}, ErrUserExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	hash, err := s.Hasher.Hash(acct.Password)
	if errors.Is(err, cryptox.ErrPasswordTooLong) {
		return domain.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().CreateUser(ctx, domain.User{
		Name:         acct.Name,
		Email:        acct.Email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, store.ErrAlreadyExists) {
		return domain.User{}, ErrUserExists
	}
	if err != nil {
		return domain.User{}, err
	}

	log.Info("admin created", slog.Int64("user_id", user.ID), slog.String("email", user.Email))
	return user, nil
}

// SetRole changes the role of the user with email.
func (s *ProvisioningService) SetRole(ctx context.Context, email string, role domain.Role) (domain.User, error) {
	return s.update(ctx, email, func(tx store.Tx, u *domain.User) error {
		u.Role = role
		return tx.Users().UpdateRole(ctx, u.ID, role)
	})
}

// SetActive enables or disables the user with email.
func (s *ProvisioningService) SetActive(ctx context.Context, email string, active bool) (domain.User, error) {
	return s.update(ctx, email, func(tx store.Tx, u *domain.User) error {
		u.IsActive = active
		return tx.Users().SetActive(ctx, u.ID, active)
	})
}

func (s *ProvisioningService) update(
	ctx context.Context,
	email string,
	apply func(tx store.Tx, u *domain.User) error,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByEmail(ctx, email)
		if err != nil {
			return err
		}
		if err := apply(tx, &u); err != nil {
			return err
		}
		user = u
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user updated",
		slog.Int64("user_id", user.ID),
		slog.String("role", user.Role.String()),
		slog.Bool("is_active", user.IsActive),
	)
	return user, nil
}
