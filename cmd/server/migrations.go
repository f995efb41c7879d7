package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/vigilant-todo/internal/platform/postgres"
)

// migrationCommands lists the values accepted by -migrate.
var migrationCommands = []string{
	postgres.MigrateUp,
	postgres.MigrateDown,
	postgres.MigrateStatus,
	postgres.MigrateVersion,
	postgres.MigrateReset,
}

// validateMigrationCommand rejects anything RunMigrations does not know.
func validateMigrationCommand(cmd string) error {
	for _, c := range migrationCommands {
		if c == cmd {
			return nil
		}
	}
	return fmt.Errorf("invalid migration command %q, expected one of %v", cmd, migrationCommands)
}

// handleMigrations executes a single migration command against db.
func handleMigrations(ctx context.Context, db *sql.DB, cmd string, logger *slog.Logger) error {
	if err := validateMigrationCommand(cmd); err != nil {
		return err
	}

	logger.Info("Executing migrations", "command", cmd)
	if err := postgres.RunMigrations(ctx, db, cmd, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
