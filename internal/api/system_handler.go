package api

import (
	"net/http"

	"github.com/phrazzld/vigilant-todo/internal/api/shared"
)

// Service identity reported by the root and health endpoints.
const (
	ServiceName    = "vigilant-todo-api"
	ServiceVersion = "1.0.0"
	WelcomeMessage = "Welcome to Vigilant Todo API"
)

// Root handles GET /.
func Root(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": WelcomeMessage,
		"version": ServiceVersion,
	})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}
