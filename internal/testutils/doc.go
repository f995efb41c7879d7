// Package testutils provides helpers shared by tests across the codebase:
// an in-memory implementation of the store interfaces and fixtures for
// users, tasks and auth configuration.
//
//	db := testutils.NewMemDB()
//	users, tasks := db.Users(), db.Tasks()
//	alice := testutils.MustInsertUser(ctx, t, users, "alice", "secret")
package testutils
