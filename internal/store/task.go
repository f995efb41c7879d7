package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
)

// TaskStore defines the interface for task persistence. Every read and write
// is scoped by owner; a task owned by someone else behaves exactly like a
// task that does not exist.
type TaskStore interface {
	// List returns up to limit tasks owned by ownerID, skipping the first
	// offset, ordered by creation time and then id.
	List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Task, error)

	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner returns the task with id if it is owned by ownerID.
	// Within a transaction the row is locked until commit.
	// Returns ErrTaskNotFound otherwise.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// Update persists title, description, completed and updated_at.
	// The owner is part of the match and is never rewritten.
	// Returns ErrTaskNotFound if no row matched.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with id if it is owned by ownerID.
	// Returns ErrTaskNotFound otherwise.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
