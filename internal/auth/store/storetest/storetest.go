// Package storetest is a behavioural test suite shared by every store driver.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run exercises the full store contract against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore) })
	t.Run("Invites", func(t *testing.T) { testInvites(t, newStore) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, newStore) })
	t.Run("ConcurrentRedeem", func(t *testing.T) { testConcurrentRedeem(t, newStore) })
}

func testUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		s := newStore(t)

		empty, err := s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)

		u, err := s.Users().CreateUser(ctx, domain.User{
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: "hash",
			IsActive:     true,
		})
		require.NoError(t, err)
		require.NotZero(t, u.ID)
		require.Equal(t, domain.RoleUser, u.Role)

		byEmail, err := s.Users().GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)
		require.Equal(t, "Alice", byEmail.Name)
		require.Equal(t, "hash", byEmail.PasswordHash)
		require.True(t, byEmail.IsActive)
		require.False(t, byEmail.CreatedAt.IsZero())

		byID, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", byID.Email)

		empty, err = s.Users().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("ids are distinct", func(t *testing.T) {
		s := newStore(t)
		a, err := s.Users().CreateUser(ctx, domain.User{Name: "A", Email: "a@example.com"})
		require.NoError(t, err)
		b, err := s.Users().CreateUser(ctx, domain.User{Name: "B", Email: "b@example.com"})
		require.NoError(t, err)
		require.NotEqual(t, a.ID, b.ID)
	})

	t.Run("nullable password and defaults", func(t *testing.T) {
		s := newStore(t)
		u, err := s.Users().CreateUser(ctx, domain.User{Name: "NoPass", Email: "nopass@example.com"})
		require.NoError(t, err)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Empty(t, got.PasswordHash)
		require.False(t, got.HasPassword())
		require.False(t, got.IsActive)
		require.Equal(t, domain.RoleUser, got.Role)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Users().CreateUser(ctx, domain.User{Name: "A", Email: "dup@example.com"})
		require.NoError(t, err)

		_, err = s.Users().CreateUser(ctx, domain.User{Name: "B", Email: "dup@example.com"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("email is case sensitive", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Users().CreateUser(ctx, domain.User{Name: "A", Email: "case@example.com"})
		require.NoError(t, err)

		_, err = s.Users().GetUserByEmail(ctx, "CASE@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Users().GetUserByEmail(ctx, "ghost@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Users().GetUserByID(ctx, 999)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update role and active", func(t *testing.T) {
		s := newStore(t)
		u, err := s.Users().CreateUser(ctx, domain.User{Name: "A", Email: "a@example.com", IsActive: true})
		require.NoError(t, err)

		require.NoError(t, s.Users().UpdateRole(ctx, u.ID, domain.RoleAdmin))
		require.NoError(t, s.Users().SetActive(ctx, u.ID, false))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, got.Role)
		require.False(t, got.IsActive)

		require.ErrorIs(t, s.Users().UpdateRole(ctx, 999, domain.RoleAdmin), store.ErrNotFound)
		require.ErrorIs(t, s.Users().SetActive(ctx, 999, true), store.ErrNotFound)
	})
}

func testInvites(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		s := newStore(t)
		inv, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "h1"})
		require.NoError(t, err)
		require.NotZero(t, inv.ID)
		require.False(t, inv.Used)

		byEmail, err := s.Invites().GetInviteByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.Equal(t, inv.ID, byEmail.ID)
		require.Equal(t, "h1", byEmail.TokenHash)

		byHash, err := s.Invites().GetUnusedInviteByTokenHash(ctx, "h1")
		require.NoError(t, err)
		require.Equal(t, inv.ID, byHash.ID)
		require.Equal(t, "bob@example.com", byHash.Email)
	})

	t.Run("duplicate email or hash", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "h1"})
		require.NoError(t, err)

		_, err = s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "h2"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		_, err = s.Invites().CreateInvite(ctx, domain.Invite{Email: "carol@example.com", TokenHash: "h1"})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("mark used is single shot", func(t *testing.T) {
		s := newStore(t)
		inv, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "h1"})
		require.NoError(t, err)

		require.NoError(t, s.Invites().MarkInviteUsed(ctx, inv.ID, "h1"))
		require.ErrorIs(t, s.Invites().MarkInviteUsed(ctx, inv.ID, "h1"), store.ErrNotFound)

		_, err = s.Invites().GetUnusedInviteByTokenHash(ctx, "h1")
		require.ErrorIs(t, err, store.ErrNotFound)

		byEmail, err := s.Invites().GetInviteByEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		require.True(t, byEmail.Used)

		require.ErrorIs(t, s.Invites().MarkInviteUsed(ctx, 999, "h1"), store.ErrNotFound)
	})

	t.Run("mark used refuses a superseded token", func(t *testing.T) {
		s := newStore(t)
		inv, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "old"})
		require.NoError(t, err)
		require.NoError(t, s.Invites().ReissueInvite(ctx, inv.ID, "new"))

		require.ErrorIs(t, s.Invites().MarkInviteUsed(ctx, inv.ID, "old"), store.ErrNotFound)

		got, err := s.Invites().GetUnusedInviteByTokenHash(ctx, "new")
		require.NoError(t, err)
		require.False(t, got.Used, "the reissued link must stay redeemable")

		require.NoError(t, s.Invites().MarkInviteUsed(ctx, inv.ID, "new"))
	})

	t.Run("reissue replaces token and resets used", func(t *testing.T) {
		s := newStore(t)
		inv, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "bob@example.com", TokenHash: "old"})
		require.NoError(t, err)
		require.NoError(t, s.Invites().MarkInviteUsed(ctx, inv.ID, "old"))

		require.NoError(t, s.Invites().ReissueInvite(ctx, inv.ID, "new"))

		_, err = s.Invites().GetUnusedInviteByTokenHash(ctx, "old")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.Invites().GetUnusedInviteByTokenHash(ctx, "new")
		require.NoError(t, err)
		require.Equal(t, inv.ID, got.ID)
		require.False(t, got.Used)

		require.ErrorIs(t, s.Invites().ReissueInvite(ctx, 999, "x"), store.ErrNotFound)
	})
}

func testTransactions(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		s := newStore(t)
		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Users().CreateUser(ctx, domain.User{Name: "A", Email: "a@example.com"})
			return err
		})
		require.NoError(t, err)

		_, err = s.Users().GetUserByEmail(ctx, "a@example.com")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		s := newStore(t)
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			if _, err := tx.Users().CreateUser(ctx, domain.User{Name: "A", Email: "a@example.com"}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByEmail(ctx, "a@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("manual tx", func(t *testing.T) {
		s := newStore(t)
		tx, err := s.Tx(ctx)
		require.NoError(t, err)
		_, err = tx.Invites().CreateInvite(ctx, domain.Invite{Email: "x@example.com", TokenHash: "h"})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		_, err = s.Invites().GetInviteByEmail(ctx, "x@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

// testConcurrentRedeem runs the redemption write path from several
// goroutines against one invite; exactly one must win.
func testConcurrentRedeem(t *testing.T, newStore Factory) {
	ctx := context.Background()
	s := newStore(t)

	inv, err := s.Invites().CreateInvite(ctx, domain.Invite{Email: "race@example.com", TokenHash: "h"})
	require.NoError(t, err)

	const workers = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.WithTx(ctx, func(tx store.Tx) error {
				if _, err := tx.Users().CreateUser(ctx, domain.User{
					Name: "Race", Email: inv.Email, IsActive: true,
				}); err != nil {
					return err
				}
				return tx.Invites().MarkInviteUsed(ctx, inv.ID, inv.TokenHash)
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, wins)

	got, err := s.Invites().GetInviteByEmail(ctx, inv.Email)
	require.NoError(t, err)
	require.True(t, got.Used)
}
