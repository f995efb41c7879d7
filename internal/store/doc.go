// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Services group store calls into a unit of work through a Transactor; store
// implementations join it via WithTx.
package store
