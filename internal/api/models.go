package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Username string  `json:"username"  validate:"required,max=64"`
	Email    string  `json:"email"     validate:"required,email,max=255"`
	Password string  `json:"password"  validate:"required,max=72"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

// LoginRequest defines the credentials accepted by the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserUpdateRequest carries the profile fields a user may change.
type UserUpdateRequest struct {
	Email    *string `json:"email"     validate:"omitempty,email,max=255"`
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
}

// UserResponse is the public view of a user. The password hash is never included.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	FullName  *string    `json:"full_name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// TaskCreateRequest defines the payload for creating a task.
type TaskCreateRequest struct {
	Title       string  `json:"title"       validate:"required,max=255"`
	Description *string `json:"description"`
	Completed   bool    `json:"completed"`
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// MessageResponse is a body carrying a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func newTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func newTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}
