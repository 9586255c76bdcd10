package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aussiebroadwan/invitegate/internal/auth/admincli"
	"github.com/aussiebroadwan/invitegate/internal/auth/app"
	"github.com/aussiebroadwan/invitegate/internal/auth/service"
	"github.com/aussiebroadwan/invitegate/pkg/slogx"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, admincli.ErrUsage) {
			admincli.Usage(os.Stderr)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		admincli.Usage(os.Stdout)
		return nil
	}

	cfg, err := app.LoadStoreConfig()
	if err != nil {
		return err
	}

	logger := slogx.New(slogx.Config{
		Service: "invitegate-admin",
		Version: app.BuildVersion,
		Env:     os.Getenv("ENV"),
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  "text",
		Output:  os.Stderr,
	})
	ctx = slogx.WithContext(ctx, logger)

	db, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	hasher, err := app.NewHasher(cfg)
	if err != nil {
		return err
	}

	runner := &admincli.Runner{
		Provisioner: &service.ProvisioningService{Store: db, Hasher: hasher},
		Lookup:      os.LookupEnv,
		Prompt:      admincli.TerminalPrompt(os.Stdin, os.Stderr),
		Out:         os.Stdout,
	}
	return runner.Run(ctx, args)
}
