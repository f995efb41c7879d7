package testutils

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/config"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestJWTSecret is a test-only signing secret. It must never be used in production.
const TestJWTSecret = "test-jwt-secret-that-is-32-chars-long"

// TestAuthConfig returns a valid auth configuration with the cheapest bcrypt cost.
func TestAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SecretKey:            TestJWTSecret,
		Algorithm:            "HS256",
		TokenLifetimeMinutes: 30,
		BcryptCost:           bcrypt.MinCost,
	}
}

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// MustInsertUser hashes password and stores a new user. The test fails if
// anything goes wrong.
func MustInsertUser(
	ctx context.Context,
	t *testing.T,
	users store.UserStore,
	username, password string,
) *domain.User {
	t.Helper()

	hash, err := auth.NewBcryptHasher(bcrypt.MinCost).Hash(password)
	require.NoError(t, err, "Failed to hash password")

	user, err := domain.NewUser(username, username+"@example.com", hash, nil)
	require.NoError(t, err, "Failed to build user")
	require.NoError(t, users.Create(ctx, user), "Failed to insert user")
	return user
}

// MustInsertTask stores a new incomplete task for ownerID.
func MustInsertTask(
	ctx context.Context,
	t *testing.T,
	tasks store.TaskStore,
	ownerID uuid.UUID,
	title string,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, nil, false)
	require.NoError(t, err, "Failed to build task")
	require.NoError(t, tasks.Create(ctx, task), "Failed to insert task")
	return task
}

// Stack is the service layer wired over a MemDB, as the server wires it over Postgres.
type Stack struct {
	DB       *MemDB
	Users    service.UserService
	Tasks    service.TaskService
	Tokens   auth.JWTService
	Resolver *service.IdentityResolver
}

// NewStack builds a Stack with real bcrypt hashing and real token signing.
func NewStack(t *testing.T) *Stack {
	t.Helper()

	cfg := TestAuthConfig()
	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err, "Failed to create JWT service")

	db := NewMemDB()
	log := DiscardLogger()
	users := service.NewUserService(db.Users(), db, auth.NewBcryptHasher(cfg.BcryptCost), log)

	return &Stack{
		DB:       db,
		Users:    users,
		Tasks:    service.NewTaskService(db.Tasks(), db, log),
		Tokens:   tokens,
		Resolver: service.NewIdentityResolver(tokens, users, log),
	}
}

// MustToken issues a token for username.
func (s *Stack) MustToken(t *testing.T, username string) string {
	t.Helper()
	token, err := s.Tokens.GenerateToken(context.Background(), username)
	require.NoError(t, err, "Failed to generate token")
	return token
}
