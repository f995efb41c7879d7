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
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// UserService provides registration, credential checks and profile updates.
type UserService interface {
	// CreateUser registers a new user, storing only the password hash.
	// Returns store.ErrUsernameExists if the username is taken.
	CreateUser(ctx context.Context, username, email, password string, fullName *string) (*domain.User, error)

	// Authenticate returns the user when password matches the stored hash.
	// Returns ErrInvalidCredentials when the user is absent or the password is wrong.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// GetByUsername returns the user or store.ErrUserNotFound.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// GetByID returns the user or store.ErrUserNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// UpdateProfile applies the present profile fields to the user.
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd domain.UserProfileUpdate) (*domain.User, error)
}

type userService struct {
	users  store.UserStore
	tx     store.Transactor
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	users store.UserStore,
	tx store.Transactor,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		users:  users,
		tx:     tx,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) CreateUser(
	ctx context.Context,
	username, email, password string,
	fullName *string,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, domain.NewValidationError("password", "must be at most 72 bytes", err)
		}
		return nil, NewServiceError("user", "create", "failed to hash password", err)
	}

	user, err := domain.NewUser(username, email, hash, fullName)
	if err != nil {
		return nil, userValidationError(err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("attempted to register existing username",
				slog.String("username", username))
			return nil, err
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "create", "failed to save user", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.HashedPassword) {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		user, err = s.users.WithTx(tx).GetByUsername(ctx, username)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("user", "get", "failed to load user", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		user, err = s.users.WithTx(tx).GetByID(ctx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("user", "get", "failed to load user", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	upd domain.UserProfileUpdate,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		var err error
		user, err = users.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		applied, err := user.ApplyProfile(upd, time.Now().UTC())
		if err != nil {
			return userValidationError(err)
		}
		if !applied {
			return nil
		}
		return users.Update(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) || errors.Is(err, domain.ErrValidation) {
			return nil, err
		}
		log.Error("failed to update profile", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "update", "failed to update profile", err)
	}

	return user, nil
}

// userValidationError attaches the offending field to a domain user error.
func userValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyUsername):
		return domain.NewValidationError("username", "must not be empty", err)
	case errors.Is(err, domain.ErrUsernameTooLong):
		return domain.NewValidationError("username", "must be at most 64 characters", err)
	case errors.Is(err, domain.ErrEmptyEmail):
		return domain.NewValidationError("email", "must not be empty", err)
	case errors.Is(err, domain.ErrInvalidEmail):
		return domain.NewValidationError("email", "is not a valid email address", err)
	case errors.Is(err, domain.ErrEmailTooLong):
		return domain.NewValidationError("email", "must be at most 255 characters", err)
	case errors.Is(err, domain.ErrFullNameTooLong):
		return domain.NewValidationError("full_name", "must be at most 255 characters", err)
	default:
		return err
	}
}
