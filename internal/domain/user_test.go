package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewUser(t *testing.T) {
	fullName := "Alice Liddell"

	user, err := NewUser("alice", "a@x.com", "hashedpassword123", &fullName)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
	if user.HashedPassword != "hashedpassword123" {
		t.Errorf("Expected hashed password to be kept, got %s", user.HashedPassword)
	}
	if !user.IsActive {
		t.Error("Expected new user to be active")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
	if user.UpdatedAt != nil {
		t.Error("Expected nil UpdatedAt on creation")
	}
	if user.FullName == nil || *user.FullName != fullName {
		t.Errorf("Expected full name %q, got %v", fullName, user.FullName)
	}
}

func TestNewUser_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		hash     string
		wantErr  error
	}{
		{"empty username", "", "a@x.com", "hash", ErrEmptyUsername},
		{"blank username", "   ", "a@x.com", "hash", ErrEmptyUsername},
		{"long username", strings.Repeat("u", MaxUsernameLength+1), "a@x.com", "hash", ErrUsernameTooLong},
		{"long multibyte username", strings.Repeat("ü", MaxUsernameLength+1), "a@x.com", "hash", ErrUsernameTooLong},
		{"long email", "alice", strings.Repeat("a", MaxEmailLength) + "@x.com", "hash", ErrEmailTooLong},
		{"empty email", "alice", "", "hash", ErrEmptyEmail},
		{"email without at", "alice", "invalidemail", "hash", ErrInvalidEmail},
		{"email without domain dot", "alice", "a@localhost", "hash", ErrInvalidEmail},
		{"empty hash", "alice", "a@x.com", "", ErrEmptyHashedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.username, tt.email, tt.hash, nil)
			if err != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
			if user != nil {
				t.Error("Expected nil user on validation failure")
			}
		})
	}
}

func TestNewUser_LengthsCountCharacters(t *testing.T) {
	username := strings.Repeat("ü", MaxUsernameLength)
	if _, err := NewUser(username, "a@x.com", "hash", nil); err != nil {
		t.Errorf("Expected a %d-character multibyte username to be valid, got %v", MaxUsernameLength, err)
	}

	long := strings.Repeat("n", MaxFullNameLength+1)
	if _, err := NewUser("alice", "a@x.com", "hash", &long); err != ErrFullNameTooLong {
		t.Errorf("Expected %v, got %v", ErrFullNameTooLong, err)
	}
}

func TestUserApplyProfile(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("empty update is a no-op", func(t *testing.T) {
		user := User{Email: "a@x.com"}
		applied, err := user.ApplyProfile(UserProfileUpdate{}, now)
		if err != nil || applied {
			t.Fatalf("Expected no-op, got applied=%v err=%v", applied, err)
		}
		if user.UpdatedAt != nil {
			t.Error("Expected UpdatedAt to stay nil")
		}
	})

	t.Run("updates only given fields", func(t *testing.T) {
		name := "Old"
		user := User{Email: "a@x.com", FullName: &name}
		newEmail := "b@x.com"

		applied, err := user.ApplyProfile(UserProfileUpdate{Email: &newEmail}, now)
		if err != nil || !applied {
			t.Fatalf("Expected update, got applied=%v err=%v", applied, err)
		}
		if user.Email != newEmail {
			t.Errorf("Expected email %s, got %s", newEmail, user.Email)
		}
		if user.FullName == nil || *user.FullName != "Old" {
			t.Error("Expected full name to be untouched")
		}
		if user.UpdatedAt == nil || !user.UpdatedAt.Equal(now) {
			t.Error("Expected UpdatedAt to be stamped")
		}
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		user := User{Email: "a@x.com"}
		bad := "nope"
		if _, err := user.ApplyProfile(UserProfileUpdate{Email: &bad}, now); err != ErrInvalidEmail {
			t.Errorf("Expected %v, got %v", ErrInvalidEmail, err)
		}
		if user.Email != "a@x.com" {
			t.Error("Expected email to be unchanged after failed update")
		}
	})

	t.Run("rejects overlong full name without partial apply", func(t *testing.T) {
		user := User{Email: "a@x.com"}
		newEmail := "b@x.com"
		long := strings.Repeat("n", MaxFullNameLength+1)

		_, err := user.ApplyProfile(UserProfileUpdate{Email: &newEmail, FullName: &long}, now)
		if err != ErrFullNameTooLong {
			t.Errorf("Expected %v, got %v", ErrFullNameTooLong, err)
		}
		if user.Email != "a@x.com" || user.FullName != nil || user.UpdatedAt != nil {
			t.Error("Expected user to be unchanged after failed update")
		}
	})
}
