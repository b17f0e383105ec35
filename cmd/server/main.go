// Package main implements the entry point for the console API server, which
// manages portal users, their applications and support tickets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a goose migration command (up, down, status, version, reset) and exit")
	skipMigrations := flag.Bool("skip-migrations", false, "do not apply pending migrations at start-up")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *migrateCmd, !*skipMigrations); err != nil {
		log.Printf("console-api: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and serves until ctx is
// canceled. With a migration command it only runs that command.
func run(ctx context.Context, migrateCmd string, autoMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("email_enabled", cfg.Email.Enabled),
		slog.Bool("registration_enabled", cfg.User.Creation.Enabled),
		slog.Bool("support_enabled", cfg.Support.Enabled))

	if migrateCmd != "" {
		return handleMigrations(ctx, cfg, migrateCmd, l)
	}

	db, err := postgres.Open(ctx, cfg.Database.URL, l)
	if err != nil {
		return err
	}

	if autoMigrate {
		if err := postgres.Migrate(ctx, db.DB, "up", l); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, l, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
