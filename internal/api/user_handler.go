package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/vigilant-todo/internal/api/middleware"
	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/service"
)

// UserHandler serves the authenticated user's own profile.
type UserHandler struct {
	users  service.UserService
	authn  *middleware.Authenticator
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, authn *middleware.Authenticator, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		authn:  authn,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// UpdateMe handles PATCH /users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	var req UserUpdateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), user.ID, domain.UserProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(updated))
}
