package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/vigilant-todo/internal/api/middleware"
	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// Client-facing error messages.
const (
	MsgValidationFailed     = "Validation failed"
	MsgUsernameRegistered   = "Username already registered"
	MsgIncorrectCredentials = "Incorrect username or password"
	MsgTaskNotFound         = "Task not found"
	MsgResourceNotFound     = "Resource not found"
	MsgUnexpected           = "An unexpected error occurred"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case isValidationError(err):
		return http.StatusUnprocessableEntity

	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, middleware.ErrMissingAuthHeader):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	switch {
	case isValidationError(err):
		return MsgValidationFailed
	case errors.Is(err, store.ErrUsernameExists):
		return MsgUsernameRegistered
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgIncorrectCredentials
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return middleware.MsgInvalidCredentials
	case errors.Is(err, middleware.ErrUnsupportedAuthScheme):
		return middleware.MsgInvalidCredentials
	case errors.Is(err, middleware.ErrMissingAuthHeader):
		return middleware.MsgNotAuthenticated
	case errors.Is(err, store.ErrUserNotFound):
		return middleware.MsgUserNotFound
	case errors.Is(err, store.ErrTaskNotFound):
		return MsgTaskNotFound
	case errors.Is(err, store.ErrNotFound):
		return MsgResourceNotFound
	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the response for err: status and message from the
// maps above, field details for validation failures and a Bearer challenge
// for 401s. The raw error is only logged, after redaction.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)

	var opts []shared.ResponseOption
	if fields := fieldErrors(err); len(fields) > 0 {
		opts = append(opts, shared.WithFieldErrors(fields))
	}
	if status == http.StatusUnauthorized {
		opts = append(opts,
			shared.WithHeader("WWW-Authenticate", "Bearer"),
			shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}

func isValidationError(err error) bool {
	var vErrs validator.ValidationErrors
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, shared.ErrInvalidBody) ||
		errors.Is(err, store.ErrInvalidEntity) ||
		errors.As(err, &vErrs)
}

func fieldErrors(err error) []shared.FieldError {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return []shared.FieldError{{Field: vErr.Field, Message: vErr.Message}}
	}
	if errors.Is(err, shared.ErrInvalidBody) {
		return []shared.FieldError{{Field: "body", Message: "could not be decoded"}}
	}
	return shared.FieldErrorsFrom(err)
}
