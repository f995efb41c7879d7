package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/mocks"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func existingUser(username, password string) *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Username:       username,
		Email:          username + "@x.com",
		HashedPassword: mocks.HashPrefix + password,
		IsActive:       true,
	}
}

func TestUserService_CreateUser(t *testing.T) {
	t.Run("stores only the hash", func(t *testing.T) {
		users := new(mocks.UserStore)
		tx := &mocks.Transactor{}
		svc := service.NewUserService(users, tx, &mocks.MockPasswordHasher{}, testLogger())

		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Username == "alice" && u.HashedPassword == mocks.HashPrefix+"s3cret" && u.IsActive
		})).Return(nil)

		user, err := svc.CreateUser(context.Background(), "alice", "a@x.com", "s3cret", nil)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEqual(t, "s3cret", user.HashedPassword)
		assert.Equal(t, 1, tx.Calls)
		users.AssertExpectations(t)
	})

	t.Run("duplicate username", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		users.On("Create", mock.Anything, mock.Anything).Return(store.ErrUsernameExists)

		_, err := svc.CreateUser(context.Background(), "alice", "a@x.com", "s3cret", nil)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
	})

	t.Run("invalid email is a validation error", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		_, err := svc.CreateUser(context.Background(), "alice", "nope", "s3cret", nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "email", vErr.Field)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("overlong full name is a validation error", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		long := strings.Repeat("n", domain.MaxFullNameLength+1)
		_, err := svc.CreateUser(context.Background(), "alice", "a@x.com", "s3cret", &long)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "full_name", vErr.Field)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("password too long for bcrypt", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, auth.NewBcryptHasher(4), testLogger())

		_, err := svc.CreateUser(context.Background(), "alice", "a@x.com", strings.Repeat("p", 73), nil)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		boom := errors.New("connection reset")
		users.On("Create", mock.Anything, mock.Anything).Return(boom)

		_, err := svc.CreateUser(context.Background(), "alice", "a@x.com", "s3cret", nil)
		assert.ErrorIs(t, err, boom)
		var svcErr *service.ServiceError
		assert.True(t, errors.As(err, &svcErr))
	})
}

func TestUserService_Authenticate(t *testing.T) {
	alice := existingUser("alice", "s3cret")

	tests := []struct {
		name     string
		username string
		password string
		setup    func(users *mocks.UserStore)
		wantErr  error
	}{
		{
			name:     "correct password",
			username: "alice",
			password: "s3cret",
			setup: func(users *mocks.UserStore) {
				users.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
			},
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrong",
			setup: func(users *mocks.UserStore) {
				users.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name:     "unknown user",
			username: "Alice",
			password: "s3cret",
			setup: func(users *mocks.UserStore) {
				users.On("GetByUsername", mock.Anything, "Alice").Return(nil, store.ErrUserNotFound)
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(mocks.UserStore)
			tt.setup(users)
			svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

			user, err := svc.Authenticate(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, alice.ID, user.ID)
		})
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Run("updates present fields", func(t *testing.T) {
		users := new(mocks.UserStore)
		alice := existingUser("alice", "s3cret")
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		newName := "Alice Liddell"
		users.On("GetByID", mock.Anything, alice.ID).Return(alice, nil)
		users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.FullName != nil && *u.FullName == newName && u.Email == "alice@x.com" && u.UpdatedAt != nil
		})).Return(nil)

		user, err := svc.UpdateProfile(context.Background(), alice.ID, domain.UserProfileUpdate{FullName: &newName})
		require.NoError(t, err)
		assert.Equal(t, newName, *user.FullName)
		users.AssertExpectations(t)
	})

	t.Run("empty update does not write", func(t *testing.T) {
		users := new(mocks.UserStore)
		alice := existingUser("alice", "s3cret")
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		users.On("GetByID", mock.Anything, alice.ID).Return(alice, nil)

		_, err := svc.UpdateProfile(context.Background(), alice.ID, domain.UserProfileUpdate{})
		require.NoError(t, err)
		users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing user", func(t *testing.T) {
		users := new(mocks.UserStore)
		svc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())

		id := uuid.New()
		users.On("GetByID", mock.Anything, id).Return(nil, store.ErrUserNotFound)

		_, err := svc.UpdateProfile(context.Background(), id, domain.UserProfileUpdate{})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestIdentityResolver(t *testing.T) {
	alice := existingUser("alice", "s3cret")

	t.Run("valid token resolves user", func(t *testing.T) {
		users := new(mocks.UserStore)
		users.On("GetByUsername", mock.Anything, "alice").Return(alice, nil)
		userSvc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())
		tokens := &mocks.MockJWTService{Claims: &auth.Claims{Subject: "alice"}}

		user, err := service.NewIdentityResolver(tokens, userSvc, testLogger()).ResolveIdentity(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, user.ID)
	})

	t.Run("token failures are unauthorized", func(t *testing.T) {
		for _, tokenErr := range []error{auth.ErrInvalidToken, auth.ErrExpiredToken, errors.New("anything")} {
			users := new(mocks.UserStore)
			userSvc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())
			tokens := &mocks.MockJWTService{ValidateErr: tokenErr}

			_, err := service.NewIdentityResolver(tokens, userSvc, testLogger()).ResolveIdentity(context.Background(), "tok")
			assert.ErrorIs(t, err, service.ErrUnauthorized)
			users.AssertNotCalled(t, "GetByUsername", mock.Anything, mock.Anything)
		}
	})

	t.Run("deleted user is not found", func(t *testing.T) {
		users := new(mocks.UserStore)
		users.On("GetByUsername", mock.Anything, "ghost").Return(nil, store.ErrUserNotFound)
		userSvc := service.NewUserService(users, &mocks.Transactor{}, &mocks.MockPasswordHasher{}, testLogger())
		tokens := &mocks.MockJWTService{Claims: &auth.Claims{Subject: "ghost"}}

		_, err := service.NewIdentityResolver(tokens, userSvc, testLogger()).ResolveIdentity(context.Background(), "tok")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
