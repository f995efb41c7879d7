// Package postgres provides PostgreSQL implementations of the store
// interfaces, backed by database/sql and the pgx driver. It also carries the
// embedded goose migrations that define the users and tasks tables.
//
// Stores accept a store.DBTX so the same code runs against the pool or
// inside a transaction obtained from store.Transactor.
package postgres
