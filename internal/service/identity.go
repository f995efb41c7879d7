package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/platform/logger"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// IdentityResolver turns a bearer token into the user it was issued to.
type IdentityResolver struct {
	tokens auth.JWTService
	users  UserService
	logger *slog.Logger
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(tokens auth.JWTService, users UserService, logger *slog.Logger) *IdentityResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityResolver{
		tokens: tokens,
		users:  users,
		logger: logger.With(slog.String("component", "identity_resolver")),
	}
}

// ResolveIdentity validates token and loads the user named by its subject.
// Any token failure yields ErrUnauthorized; a valid token for a user that no
// longer exists yields store.ErrUserNotFound.
func (r *IdentityResolver) ResolveIdentity(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	claims, err := r.tokens.ValidateToken(ctx, token)
	if err != nil {
		log.Debug("token rejected", slog.String("reason", err.Error()))
		return nil, ErrUnauthorized
	}

	user, err := r.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("token subject no longer exists")
		}
		return nil, err
	}

	return user, nil
}
