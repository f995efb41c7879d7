//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/vigilant-todo/internal/config"
	"github.com/phrazzld/vigilant-todo/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds connection setup and migrations.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns DATABASE_URL, falling back to VIGILANT_DATABASE_URL.
func GetTestDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}
	return os.Getenv("VIGILANT_DATABASE_URL")
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// GetTestDBWithT opens a pool against the test database, applies the embedded
// migrations and registers cleanup. It skips the test when no database is
// configured.
func GetTestDBWithT(t *testing.T) *sql.DB {
	t.Helper()

	if ShouldSkipDatabaseTest() {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, config.DatabaseConfig{
		URL:                    GetTestDatabaseURL(),
		MaxOpenConns:           5,
		MaxIdleConns:           2,
		ConnMaxLifetimeMinutes: 5,
	}, TestTimeout)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	require.NoError(t, postgres.RunMigrations(ctx, db, postgres.MigrateUp, nil), "failed to run migrations")
	return db
}

// WithTx executes a test function within a transaction, automatically rolling back
// after the test completes.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback()
		// sql.ErrTxDone is expected if tx is already committed or rolled back
		if err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
