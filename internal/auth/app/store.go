package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/internal/auth/store/drivers/postgres"
	"github.com/aussiebroadwan/invitegate/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
)

// OpenStore connects to the configured database and applies migrations.
// Shared by the server and the admin CLI.
func OpenStore(ctx context.Context, cfg StoreConfig, logger *slog.Logger) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(ctx, cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(sqlite.FileDSN(cfg.DatabaseFile))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply database migrations: %w", err)
	}

	logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)
	return db, nil
}

// NewHasher builds the configured password hasher.
func NewHasher(cfg StoreConfig) (cryptox.PasswordHasher, error) {
	h, err := cryptox.NewPasswordHasher(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.PasswordHasher)
	}
	return h, nil
}
