package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxTaskTitleLength bounds the title column, in characters.
const MaxTaskTitleLength = 255

// Common validation errors for Task
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong = errors.New("task title must be at most 255 characters long")
)

// Task is a unit of work owned by exactly one user.
// OwnerID is fixed at creation.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// NewTask creates a new Task for ownerID with a fresh id and creation timestamp.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title string, description *string, completed bool) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}
	return validateTitle(t.Title)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "must not be empty", ErrEmptyTaskTitle)
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return NewValidationError("title", "must be at most 255 characters", ErrTaskTitleTooLong)
	}
	return nil
}

// TaskPatch is a partial task update. Fields that are not Set are left untouched.
type TaskPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
	Completed   Optional[bool]   `json:"completed"`
}

// Empty reports whether the patch carries no fields at all.
func (p TaskPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.Completed.Set
}

// Validate rejects explicit nulls for non-nullable fields and blank or overlong titles.
func (p TaskPatch) Validate() error {
	if p.Title.Set {
		if p.Title.Null {
			return NewValidationError("title", "must not be null", nil)
		}
		if err := validateTitle(p.Title.Value); err != nil {
			return err
		}
	}
	if p.Completed.Set && p.Completed.Null {
		return NewValidationError("completed", "must not be null", nil)
	}
	return nil
}

// Apply mutates the fields present in p and stamps UpdatedAt with now.
// OwnerID and ID are never touched. An empty patch changes nothing.
func (t *Task) Apply(p TaskPatch, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Empty() {
		return nil
	}

	if p.Title.Set {
		t.Title = p.Title.Value
	}
	if p.Description.Set {
		t.Description = p.Description.Ptr()
	}
	if p.Completed.Set {
		t.Completed = p.Completed.Value
	}
	t.UpdatedAt = &now
	return nil
}
