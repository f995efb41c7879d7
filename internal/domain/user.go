package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Column bounds for user fields, in characters.
const (
	MaxUsernameLength = 64
	MaxEmailLength    = 255
	MaxFullNameLength = 255
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrUsernameTooLong     = errors.New("username must be at most 64 characters long")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmailTooLong        = errors.New("email must be at most 255 characters long")
	ErrFullNameTooLong     = errors.New("full name must be at most 255 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the task API.
// The password hash is never serialized.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FullName       *string    `json:"full_name"`
	HashedPassword string     `json:"-"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// NewUser creates a new active User with a fresh id and creation timestamp.
// The caller supplies an already hashed password; plaintext never reaches this type.
// Returns an error if validation fails.
func NewUser(username, email, hashedPassword string, fullName *string) (*User, error) {
	user := &User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Username) == "" {
		return ErrEmptyUsername
	}
	if utf8.RuneCountInString(u.Username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if u.FullName != nil && utf8.RuneCountInString(*u.FullName) > MaxFullNameLength {
		return ErrFullNameTooLong
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// UserProfileUpdate carries the mutable profile fields of a user.
// Nil fields are left untouched.
type UserProfileUpdate struct {
	Email    *string
	FullName *string
}

// ApplyProfile mutates the profile fields present in upd and stamps UpdatedAt.
// It reports whether anything was applied.
func (u *User) ApplyProfile(upd UserProfileUpdate, now time.Time) (bool, error) {
	if upd.Email == nil && upd.FullName == nil {
		return false, nil
	}
	if upd.Email != nil {
		if err := validateEmail(*upd.Email); err != nil {
			return false, err
		}
	}
	if upd.FullName != nil && utf8.RuneCountInString(*upd.FullName) > MaxFullNameLength {
		return false, ErrFullNameTooLong
	}

	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.FullName != nil {
		name := *upd.FullName
		u.FullName = &name
	}
	u.UpdatedAt = &now
	return true, nil
}

func validateEmail(email string) error {
	if utf8.RuneCountInString(email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !validateEmailFormat(email) {
		return ErrInvalidEmail
	}
	return nil
}

// validateEmailFormat performs basic validation of email format: a non-empty
// local part and a dotted domain. Strict checking happens at the request layer.
func validateEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domainPart := email[at+1:]
	dot := strings.IndexByte(domainPart, '.')
	return dot > 0 && dot < len(domainPart)-1
}
