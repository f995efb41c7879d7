package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// ErrMissingAuthHeader is returned by BearerToken when the request carries no
// usable bearer credentials.
var ErrMissingAuthHeader = errors.New("missing bearer authorization header")

// ErrUnsupportedAuthScheme is returned by BearerToken for a credential in a
// scheme other than Bearer. It wraps ErrMissingAuthHeader.
var ErrUnsupportedAuthScheme = fmt.Errorf("%w: unsupported scheme", ErrMissingAuthHeader)

// Client-facing messages for authentication failures.
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidCredentials = "Invalid authentication credentials"
	MsgUserNotFound       = "User not found"
)

// IdentityResolver resolves a bearer token to its user.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*domain.User, error)
}

// Authenticator is called at the start of every protected handler.
type Authenticator struct {
	resolver IdentityResolver
}

// NewAuthenticator creates an Authenticator backed by resolver.
func NewAuthenticator(resolver IdentityResolver) *Authenticator {
	return &Authenticator{resolver: resolver}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", ErrMissingAuthHeader
	}

	scheme, token, _ := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingAuthHeader
	}
	if !strings.EqualFold(scheme, "bearer") {
		return "", ErrUnsupportedAuthScheme
	}
	return token, nil
}

// RequireUser resolves the caller's identity. On failure it writes the error
// response and returns false; the handler must return immediately.
func (a *Authenticator) RequireUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	token, err := BearerToken(r)
	if err != nil {
		msg := MsgNotAuthenticated
		if errors.Is(err, ErrUnsupportedAuthScheme) {
			msg = MsgInvalidCredentials
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, msg, err)
		return nil, false
	}

	user, err := a.resolver.ResolveIdentity(r.Context(), token)
	switch {
	case err == nil:
		return user, true
	case errors.Is(err, service.ErrUnauthorized):
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, MsgInvalidCredentials, err,
			shared.WithHeader("WWW-Authenticate", "Bearer"),
			shared.WithElevatedLogLevel())
	case errors.Is(err, store.ErrUserNotFound):
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, MsgUserNotFound, err)
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"An unexpected error occurred", err)
	}
	return nil, false
}
