package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/vigilant-todo/internal/service/auth"
)

// HashPrefix marks hashes produced by MockPasswordHasher.
const HashPrefix = "hashed:"

// MockPasswordHasher implements auth.PasswordHasher for testing without
// paying for bcrypt. By default Hash prefixes the plaintext and Verify checks
// for that prefix.
type MockPasswordHasher struct {
	HashFn   func(plaintext string) (string, error)
	VerifyFn func(plaintext, hash string) bool

	// HashErr, when set, is returned by the default Hash.
	HashErr error

	// VerifyCallCount tracks how many times Verify was called
	VerifyCallCount int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(plaintext string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(plaintext)
	}
	if m.HashErr != nil {
		return "", m.HashErr
	}
	if plaintext == "" {
		return "", errors.New("empty password")
	}
	return HashPrefix + plaintext, nil
}

// Verify implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Verify(plaintext, hash string) bool {
	m.VerifyCallCount++
	if m.VerifyFn != nil {
		return m.VerifyFn(plaintext, hash)
	}
	return strings.HasPrefix(hash, HashPrefix) && strings.TrimPrefix(hash, HashPrefix) == plaintext
}
