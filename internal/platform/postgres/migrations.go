package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

// MigrationsDir is the directory inside Migrations that holds the goose SQL files.
const MigrationsDir = "migrations"

// MigrationsTable is the goose version table.
const MigrationsTable = "schema_migrations"

// Migrations holds the schema migrations compiled into the binary, so the
// server and the integration tests apply the same files regardless of the
// working directory.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Supported migration commands.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf implements goose.Logger.
func (l *slogGooseLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf implements goose.Logger. It does not exit; the error is returned
// to the caller by goose.
func (l *slogGooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// RunMigrations applies the embedded migrations to db with the given goose
// command (up, down, status, version or reset).
func RunMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "migrations"), slog.String("command", command))

	goose.SetBaseFS(Migrations)
	goose.SetTableName(MigrationsTable)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, db, MigrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, db, MigrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, db, MigrationsDir)
	case MigrateVersion:
		err = goose.VersionContext(ctx, db, MigrationsDir)
	case MigrateReset:
		err = goose.ResetContext(ctx, db, MigrationsDir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		log.Error("migration failed", slog.String("error", err.Error()))
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	log.Info("migration completed")
	return nil
}
