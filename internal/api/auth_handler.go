package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/platform/logger"
	"github.com/phrazzld/vigilant-todo/internal/service"
	"github.com/phrazzld/vigilant-todo/internal/service/auth"
)

// TokenTypeBearer is the token_type of every issued access token.
const TokenTypeBearer = "bearer"

// AuthHandler handles registration and login.
type AuthHandler struct {
	users      service.UserService
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(users service.UserService, jwtService auth.JWTService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:      users,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /users/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// Login handles POST /users/login. Credentials are read from a JSON body, a
// form-encoded body or the query string.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLoginRequest(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.Username)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("generate token: %w", err))
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("access token issued",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
	})
}

func decodeLoginRequest(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := shared.DecodeJSON(r, &req)
		return req, err
	}

	// ParseForm reads both a urlencoded body and the query string.
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: %v", shared.ErrInvalidBody, err)
	}
	req.Username = r.Form.Get("username")
	req.Password = r.Form.Get("password")
	return req, nil
}
