package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/invitegate/internal/auth/domain"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		SecretKey:           "app-test-secret-0123456789abcdef",
		Algorithm:           "HS256",
		AccessTokenTTL:      time.Hour,
		StoreConfig: StoreConfig{
			PasswordHasher: "bcrypt",
			BcryptCost:     4,
			DatabaseDriver: DriverSQLite,
			DatabaseFile:   filepath.Join(t.TempDir(), "auth.db"),
		},
		SignupURL:           "http://127.0.0.1:8080/signup",
		Env:                 "test",
		LogLevel:            "error",
		LogFormat:           "text",
		Port:                0,
		ShutdownGracePeriod: time.Second,
	}
}

func TestNew_RejectsUnsupportedAlgorithm(t *testing.T) {
	cfg := testConfig(t)
	cfg.Algorithm = "RS256"

	_, err := New(cfg)
	require.Error(t, err)
}

func TestApplication_EndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.db.Close() })

	prov := &service.ProvisioningService{Store: app.db, Hasher: app.hasher}
	_, err = prov.CreateAdmin(ctx, domain.AdminAccount{Email: "root@example.com", Name: "Root", Password: "Admin1Pass!"})
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	client := authsdk.NewSDKClient(srv.URL)

	admin, err := client.AuthenticateWithPassword(ctx, "root@example.com", "Admin1Pass!")
	require.NoError(t, err)

	invite, err := admin.IssueInvite(ctx, authsdk.InviteRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	require.Contains(t, invite.InviteLink, "http://127.0.0.1:8080/signup?token=")

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)

	resp, err := http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOpenStore_SQLiteFilePersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	logger := newDiscardLogger()

	db, err := OpenStore(ctx, cfg.StoreConfig, logger)
	require.NoError(t, err)
	_, err = db.Users().CreateUser(ctx, domain.User{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenStore(ctx, cfg.StoreConfig, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	empty, err := db.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestNewHasher(t *testing.T) {
	cfg := testConfig(t)

	h, err := NewHasher(cfg.StoreConfig)
	require.NoError(t, err)
	hash, err := h.Hash("Valid1Pass!")
	require.NoError(t, err)
	require.True(t, h.Verify("Valid1Pass!", hash))

	cfg.PasswordHasher = "md5"
	_, err = NewHasher(cfg.StoreConfig)
	require.Error(t, err)
}

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
