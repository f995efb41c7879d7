package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/platform/logger"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// DefaultListLimit is the page size when the caller does not pass one.
const DefaultListLimit = 100

// TaskService provides the task operations. Every method takes the owner id
// of the authenticated caller; tasks of other owners behave as absent.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]domain.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title string, description *string, completed bool) (*domain.Task, error)
	Get(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)
	Update(ctx context.Context, taskID, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	// Delete removes the task and returns the removed record.
	Delete(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error)
}

type taskService struct {
	tasks  store.TaskStore
	tx     store.Transactor
	now    func() time.Time
	logger *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks store.TaskStore, tx store.Transactor, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		tasks:  tasks,
		tx:     tx,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "task_service")),
	}
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID, skip, limit int) ([]domain.Task, error) {
	if skip < 0 {
		return nil, domain.NewValidationError("skip", "must be greater than or equal to 0", nil)
	}
	if limit < 0 {
		return nil, domain.NewValidationError("limit", "must be greater than or equal to 0", nil)
	}

	var tasks []domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		tasks, err = s.tasks.WithTx(tx).List(ctx, ownerID, skip, limit)
		return err
	})
	if err != nil {
		return nil, s.unexpected(ctx, "list", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (s *taskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
	completed bool,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description, completed)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

func (s *taskService) Get(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
	var task *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		task, err = s.tasks.WithTx(tx).GetForOwner(ctx, taskID, ownerID)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "get", err)
	}
	return task, nil
}

func (s *taskService) Update(
	ctx context.Context,
	taskID, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	var task *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetForOwner(ctx, taskID, ownerID)
		if err != nil {
			return err
		}

		if patch.Empty() {
			return nil
		}
		if err := task.Apply(patch, s.now()); err != nil {
			return err
		}
		return tasks.Update(ctx, task)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "update", err)
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, taskID, ownerID uuid.UUID) (*domain.Task, error) {
	var task *domain.Task
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetForOwner(ctx, taskID, ownerID)
		if err != nil {
			return err
		}
		return tasks.Delete(ctx, taskID, ownerID)
	})
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return nil, err
		}
		return nil, s.unexpected(ctx, "delete", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

func (s *taskService) unexpected(ctx context.Context, op string, err error) error {
	logger.FromContextOrDefault(ctx, s.logger).Error("task operation failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	return NewServiceError("task", op, "unexpected store failure", err)
}
