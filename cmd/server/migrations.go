package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/platform/postgres"
)

var migrationCommands = map[string]bool{
	"up":      true,
	"down":    true,
	"status":  true,
	"version": true,
	"reset":   true,
}

// handleMigrations runs one goose command against the configured database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if !migrationCommands[command] {
		return fmt.Errorf("unknown migration command %q", command)
	}

	logger.Info("executing migrations", slog.String("command", command))

	db, err := postgres.Open(ctx, cfg.Database.URL, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()

	return postgres.Migrate(ctx, db.DB, command, logger)
}
