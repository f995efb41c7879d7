// Package service contains the application use cases: registering and
// authenticating users, resolving the caller's identity from a bearer token,
// and the owner-scoped task operations.
//
// Every operation runs inside one store.Transactor unit of work and receives
// the owner id explicitly; nothing here reads identity from the context.
// Services depend on the store interfaces only, never on a database driver.
package service
