package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrUserNotFound", err: ErrUserNotFound, expected: true},
		{name: "wrapped ErrTaskNotFound", err: fmt.Errorf("load: %w", ErrTaskNotFound), expected: true},
		{name: "duplicate is not not-found", err: ErrUsernameExists, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrUsernameExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrTaskNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestEntityErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrUserNotFound, ErrTaskNotFound))
	assert.False(t, errors.Is(ErrTaskNotFound, ErrUserNotFound))
	assert.Equal(t, "entity not found: task", ErrTaskNotFound.Error())
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewStoreError("task", "update", "failed to update task", cause)
	assert.Equal(t, "update operation on task failed: failed to update task: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "create", "no rows", nil)
	assert.Equal(t, "create operation on user failed: no rows", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
