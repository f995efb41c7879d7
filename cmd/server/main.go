// Package main implements the entry point for the Vigilant Todo API server.
//
// Run without flags to serve the API, or with -migrate <command> to apply a
// migration command (up, down, status, version, reset) and exit.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/phrazzld/vigilant-todo/internal/config"
	"github.com/phrazzld/vigilant-todo/internal/platform/logger"
	"github.com/phrazzld/vigilant-todo/internal/platform/postgres"
)

// dbPingTimeout bounds the connectivity check at startup.
const dbPingTimeout = 5 * time.Second

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("vigilant-todo exited with error", "error", err)
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either executes a
// migration command or serves the API until shutdown.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"api_prefix", cfg.Server.APIPrefix)

	db, err := postgres.Open(ctx, cfg.Database, dbPingTimeout)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer closeDB(db, log)
		return handleMigrations(ctx, db, migrateCmd, log)
	}

	if cfg.Database.AutoMigrate {
		if err := handleMigrations(ctx, db, postgres.MigrateUp, log); err != nil {
			closeDB(db, log)
			return err
		}
	}

	app, err := newApplication(cfg, log, db)
	if err != nil {
		closeDB(db, log)
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
