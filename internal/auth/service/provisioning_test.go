package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	admin, err := e.provision.CreateAdmin(ctx, domain.AdminAccount{
		Email: "root@example.com", Name: "Root", Password: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.True(t, admin.IsActive)

	tok, err := e.sessions.Login(ctx, "root@example.com", testPassword)
	require.NoError(t, err)
	u, err := e.sessions.ResolveIdentity(ctx, tok.Token)
	require.NoError(t, err)
	_, err = service.RequireRole(u, domain.RoleAdmin)
	require.NoError(t, err)

	_, err = e.provision.CreateAdmin(ctx, domain.AdminAccount{
		Email: "root@example.com", Name: "Again", Password: testPassword,
	})
	require.ErrorIs(t, err, service.ErrUserExists)

	_, err = e.provision.CreateAdmin(ctx, domain.AdminAccount{Email: "x@example.com"})
	require.ErrorIs(t, err, service.ErrValidation)
}

func TestSetRoleAndActive(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	e.register(t, "bob@example.com", "Bob")

	u, err := e.provision.SetRole(ctx, "bob@example.com", domain.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)

	u, err = e.provision.SetActive(ctx, "bob@example.com", false)
	require.NoError(t, err)
	require.False(t, u.IsActive)

	stored, err := e.store.Users().GetUserByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, stored.Role)
	require.False(t, stored.IsActive)

	_, err = e.provision.SetRole(ctx, "ghost@example.com", domain.RoleAdmin)
	require.ErrorIs(t, err, service.ErrUserNotFound)
	_, err = e.provision.SetActive(ctx, "ghost@example.com", true)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
