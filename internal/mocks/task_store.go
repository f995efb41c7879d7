package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/store"
	"github.com/stretchr/testify/mock"
)

// TaskStore is a mock of store.TaskStore interface for use with testify/mock
type TaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TaskStore)(nil)

// List is a mock implementation of store.TaskStore.List
func (m *TaskStore) List(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Task, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if tasks, ok := args.Get(0).([]domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.TaskStore.Create
func (m *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetForOwner is a mock implementation of store.TaskStore.GetForOwner
func (m *TaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// Delete is a mock implementation of store.TaskStore.Delete
func (m *TaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

// WithTx returns the mock itself. It is not recorded as a call.
func (m *TaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
