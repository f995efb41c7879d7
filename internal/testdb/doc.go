//go:build integration

// Package testdb provides helpers for tests that need a real PostgreSQL
// database.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share the schema without cleanup:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        users := postgres.NewPostgresUserStore(tx, nil)
//	        ...
//	    })
//	}
//
// Tests are skipped when DATABASE_URL is not set.
package testdb
