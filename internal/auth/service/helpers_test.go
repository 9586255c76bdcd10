package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSignupURL = "http://127.0.0.1:8080/signup"
	testPassword  = "Valid1Pass!"
)

var testSecret = []byte("service-test-secret-0123456789ab")

type env struct {
	store     store.Store
	hasher    cryptox.PasswordHasher
	codec     *jwtx.Codec
	invites   *service.InviteService
	sessions  *service.SessionService
	provision *service.ProvisioningService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	codec, err := jwtx.NewCodec(testSecret, "HS256")
	require.NoError(t, err)

	hasher := cryptox.NewBcryptHasher(bcrypt.MinCost)

	return &env{
		store:     st,
		hasher:    hasher,
		codec:     codec,
		invites:   &service.InviteService{Store: st, Hasher: hasher, SignupURL: testSignupURL},
		sessions:  &service.SessionService{Store: st, Hasher: hasher, Codec: codec, TokenTTL: 15 * time.Minute},
		provision: &service.ProvisioningService{Store: st, Hasher: hasher},
	}
}

// register issues an invite for email and redeems it.
func (e *env) register(t *testing.T, email, name string) domain.User {
	t.Helper()
	ctx := context.Background()

	issued, err := e.invites.IssueInvite(ctx, email)
	require.NoError(t, err)

	u, err := e.invites.RedeemInvite(ctx, domain.Registration{
		Email: email, Token: issued.Token, Name: name, Password: testPassword,
	})
	require.NoError(t, err)
	return u
}
