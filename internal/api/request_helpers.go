package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/store"
)

// getPathTaskID extracts the task id from the URL path. A missing or
// malformed id is reported as store.ErrTaskNotFound so that ids leak nothing.
func getPathTaskID(r *http.Request, paramName string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, paramName))
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse %s: %w", paramName, store.ErrTaskNotFound)
	}
	return id, nil
}

// getQueryInt reads an integer query parameter, returning def when it is absent.
func getQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be a valid integer", err)
	}
	return v, nil
}
