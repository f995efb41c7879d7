package mocks

import (
	"context"

	"github.com/phrazzld/vigilant-todo/internal/store"
)

// Transactor implements store.Transactor without a database. fn runs with a
// nil *sql.Tx, which the store mocks ignore in WithTx.
type Transactor struct {
	// BeginErr, when set, is returned before fn runs.
	BeginErr error

	// Calls counts RunInTx invocations.
	Calls int
}

var _ store.Transactor = (*Transactor)(nil)

// RunInTx implements store.Transactor.
func (m *Transactor) RunInTx(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.BeginErr != nil {
		return m.BeginErr
	}
	return fn(ctx, nil)
}
