package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, signed with another key
	// or algorithm, or lacks a subject.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrPasswordTooLong indicates a plaintext exceeds bcrypt's 72 byte input limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

	// ErrUnsupportedAlgorithm indicates a signing algorithm outside the HMAC family.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
