package testutils

import (
	"bytes"
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// MemDB is an in-memory database backing MemUserStore and MemTaskStore.
// It implements store.Transactor: transactions are serialized and a failed
// transaction restores the state it started from.
type MemDB struct {
	txMu sync.Mutex
	mu   sync.Mutex

	users map[uuid.UUID]domain.User
	tasks map[uuid.UUID]domain.Task
}

var _ store.Transactor = (*MemDB)(nil)

// NewMemDB returns an empty MemDB.
func NewMemDB() *MemDB {
	return &MemDB{
		users: make(map[uuid.UUID]domain.User),
		tasks: make(map[uuid.UUID]domain.Task),
	}
}

// Users returns a UserStore over db.
func (db *MemDB) Users() *MemUserStore {
	return &MemUserStore{db: db}
}

// Tasks returns a TaskStore over db.
func (db *MemDB) Tasks() *MemTaskStore {
	return &MemTaskStore{db: db}
}

// RunInTx runs fn with a nil *sql.Tx. If fn fails or panics, every change it
// made is discarded.
func (db *MemDB) RunInTx(ctx context.Context, fn store.TxFn) (err error) {
	db.txMu.Lock()
	defer db.txMu.Unlock()

	users, tasks := db.snapshot()
	defer func() {
		if p := recover(); p != nil {
			db.restore(users, tasks)
			panic(p)
		}
		if err != nil {
			db.restore(users, tasks)
		}
	}()

	return fn(ctx, nil)
}

// TaskCount returns the number of stored tasks.
func (db *MemDB) TaskCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.tasks)
}

func (db *MemDB) snapshot() (map[uuid.UUID]domain.User, map[uuid.UUID]domain.Task) {
	db.mu.Lock()
	defer db.mu.Unlock()

	users := make(map[uuid.UUID]domain.User, len(db.users))
	for k, v := range db.users {
		users[k] = v
	}
	tasks := make(map[uuid.UUID]domain.Task, len(db.tasks))
	for k, v := range db.tasks {
		tasks[k] = v
	}
	return users, tasks
}

func (db *MemDB) restore(users map[uuid.UUID]domain.User, tasks map[uuid.UUID]domain.Task) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users = users
	db.tasks = tasks
}

// MemUserStore implements store.UserStore in memory.
type MemUserStore struct {
	db *MemDB
}

var _ store.UserStore = (*MemUserStore)(nil)

// Create implements store.UserStore.
func (s *MemUserStore) Create(_ context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "validation failed", store.ErrInvalidEntity)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	s.db.users[user.ID] = copyUser(*user)
	return nil
}

// GetByID implements store.UserStore.
func (s *MemUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	out := copyUser(u)
	return &out, nil
}

// GetByUsername implements store.UserStore.
func (s *MemUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, u := range s.db.users {
		if u.Username == username {
			out := copyUser(u)
			return &out, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore. Only the profile fields change.
func (s *MemUserStore) Update(_ context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	existing.Email = user.Email
	existing.FullName = user.FullName
	existing.IsActive = user.IsActive
	existing.UpdatedAt = user.UpdatedAt
	s.db.users[user.ID] = copyUser(existing)
	return nil
}

// WithTx implements store.UserStore.
func (s *MemUserStore) WithTx(_ *sql.Tx) store.UserStore {
	return s
}

// MemTaskStore implements store.TaskStore in memory.
type MemTaskStore struct {
	db *MemDB
}

var _ store.TaskStore = (*MemTaskStore)(nil)

// List implements store.TaskStore.
func (s *MemTaskStore) List(_ context.Context, ownerID uuid.UUID, offset, limit int) ([]domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	owned := make([]domain.Task, 0)
	for _, t := range s.db.tasks {
		if t.OwnerID == ownerID {
			owned = append(owned, copyTask(t))
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		if !owned[i].CreatedAt.Equal(owned[j].CreatedAt) {
			return owned[i].CreatedAt.Before(owned[j].CreatedAt)
		}
		return bytes.Compare(owned[i].ID[:], owned[j].ID[:]) < 0
	})

	if offset >= len(owned) {
		return []domain.Task{}, nil
	}
	end := len(owned)
	if offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

// Create implements store.TaskStore.
func (s *MemTaskStore) Create(_ context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return store.NewStoreError("task", "create", "validation failed", store.ErrInvalidEntity)
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[task.OwnerID]; !ok {
		return store.ErrUserNotFound
	}
	s.db.tasks[task.ID] = copyTask(*task)
	return nil
}

// GetForOwner implements store.TaskStore.
func (s *MemTaskStore) GetForOwner(_ context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, ok := s.db.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	out := copyTask(t)
	return &out, nil
}

// Update implements store.TaskStore. The owner is matched, never rewritten.
func (s *MemTaskStore) Update(_ context.Context, task *domain.Task) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	existing, ok := s.db.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Completed = task.Completed
	existing.UpdatedAt = task.UpdatedAt
	s.db.tasks[task.ID] = copyTask(existing)
	return nil
}

// Delete implements store.TaskStore.
func (s *MemTaskStore) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	t, ok := s.db.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(s.db.tasks, id)
	return nil
}

// WithTx implements store.TaskStore.
func (s *MemTaskStore) WithTx(_ *sql.Tx) store.TaskStore {
	return s
}

func copyUser(u domain.User) domain.User {
	u.FullName = copyPtr(u.FullName)
	u.UpdatedAt = copyPtr(u.UpdatedAt)
	return u
}

func copyTask(t domain.Task) domain.Task {
	t.Description = copyPtr(t.Description)
	t.UpdatedAt = copyPtr(t.UpdatedAt)
	return t
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
