package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/invitegate/internal/auth/http"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/internal/auth/store"
	"github.com/aussiebroadwan/invitegate/pkg/cryptox"
	"github.com/aussiebroadwan/invitegate/pkg/jwtx"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	serviceName = "invitegate"

	// Shorter HMAC secrets are accepted but logged.
	recommendedSecretBytes = 32
)

// Application encapsulates the service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	hasher cryptox.PasswordHasher
	codec  *jwtx.Codec

	// Services
	inviteService  *service.InviteService
	sessionService *service.SessionService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: serviceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initCrypto(); err != nil {
		return nil, err
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, with middleware applied.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initCrypto builds the token codec and password hasher.
func (app *Application) initCrypto() error {
	codec, err := jwtx.NewCodec([]byte(app.cfg.SecretKey), app.cfg.Algorithm)
	if err != nil {
		return fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	if len(app.cfg.SecretKey) < recommendedSecretBytes {
		app.logger.Warn("AUTH_SECRET_KEY is shorter than recommended",
			"bytes", len(app.cfg.SecretKey),
			"recommended", recommendedSecretBytes,
		)
	}

	hasher, err := NewHasher(app.cfg.StoreConfig)
	if err != nil {
		return err
	}
	app.hasher = hasher

	app.logger.Info("crypto initialized",
		"algorithm", codec.Alg(),
		"password_hasher", app.cfg.PasswordHasher,
	)
	return nil
}

// initDatabase opens the store, applies migrations and warns when there is
// no account yet to issue invites with.
func (app *Application) initDatabase() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenStore(ctx, app.cfg.StoreConfig, app.logger)
	if err != nil {
		return err
	}
	app.db = db

	empty, err := db.Users().IsEmpty(ctx)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to inspect users: %w", err)
	}
	if empty {
		app.logger.Warn("no users exist yet; create an administrator with `auth-admin create-admin`")
	}
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.inviteService = &service.InviteService{
		Store:     app.db,
		Hasher:    app.hasher,
		SignupURL: app.cfg.SignupURL,
	}
	app.sessionService = &service.SessionService{
		Store:    app.db,
		Hasher:   app.hasher,
		Codec:    app.codec,
		TokenTTL: app.cfg.AccessTokenTTL,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	// Wire services to router
	router.InviteService = app.inviteService
	router.SessionService = app.sessionService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
