package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is; the API layer maps them to HTTP statuses.
var (
	// ErrInvalidCredentials indicates the username is unknown or the password
	// does not match. The two cases are not distinguished.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUnauthorized indicates a bearer token failed validation.
	ErrUnauthorized = errors.New("invalid authentication credentials")
)

// ServiceError is a custom error type for unexpected service failures.
// Expected conditions are returned as sentinels instead.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
