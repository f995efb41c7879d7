package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/vigilant-todo/internal/api/middleware"
	"github.com/phrazzld/vigilant-todo/internal/api/shared"
	"github.com/phrazzld/vigilant-todo/internal/domain"
	"github.com/phrazzld/vigilant-todo/internal/platform/logger"
	"github.com/phrazzld/vigilant-todo/internal/service"
)

// TaskIDParam is the chi URL parameter holding a task id.
const TaskIDParam = "id"

// MsgTaskDeleted is the body message of a successful delete.
const MsgTaskDeleted = "Task deleted successfully"

// TaskHandler handles the task endpoints. Every handler resolves the caller
// first and scopes the service call to the caller's id.
type TaskHandler struct {
	tasks  service.TaskService
	authn  *middleware.Authenticator
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, authn *middleware.Authenticator, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		tasks:  tasks,
		authn:  authn,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// List handles GET /tasks?skip=&limit=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	skip, err := getQueryInt(r, "skip", 0)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit, err := getQueryInt(r, "limit", service.DefaultListLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	tasks, err := h.tasks.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	var req TaskCreateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), user.ID, req.Title, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r, TaskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), taskID, user.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Update handles PUT /tasks/{id}. Only the fields present in the body change.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r, TaskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	var patch domain.TaskPatch
	if err := shared.DecodeJSON(r, &patch); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), taskID, user.ID, patch)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authn.RequireUser(w, r)
	if !ok {
		return
	}

	taskID, err := getPathTaskID(r, TaskIDParam)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if _, err := h.tasks.Delete(r.Context(), taskID, user.ID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: MsgTaskDeleted})
}
