package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/taskdesk/taskdesk/internal/api/shared"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/internal/service"
)

// filterAll is the sentinel the list filters use for "no selection".
const filterAll = "all"

// TaskHandler handles task listing and mutation endpoints.
type TaskHandler struct {
	taskService service.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
	}
}

// List handles the GET /api/tasks endpoint. Managers may narrow the
// listing with ?executor= and ?status=; executors always get their own
// tasks, whatever the query says. The filter dropdowns send "all" for
// an unset selection; it means no filter, same as an absent parameter.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var filter service.ListTasksFilter

	if raw := r.URL.Query().Get("executor"); raw != "" && raw != filterAll {
		executorID, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid executor filter")
			return
		}
		filter.ExecutorID = &executorID
	}

	if raw := r.URL.Query().Get("status"); raw != "" && raw != filterAll {
		status := domain.TaskStatus(raw)
		if !status.Valid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filter.Status = &status
	}

	tasks, err := h.taskService.ListTasks(r.Context(), actor, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasks)
}

// Create handles the POST /tasks endpoint.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeRequest(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	executorID, err := uuid.Parse(req.ExecutorID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid executor ID format")
		return
	}

	deadline, err := parseDeadline(req.Deadline)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deadline format")
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), actor, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ExecutorID:  executorID,
		Deadline:    deadline,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Success: true,
		TaskID:  task.ID,
	})
}

// Update handles the POST /tasks/{id}/update endpoint.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeRequest(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	executorID, err := uuid.Parse(req.ExecutorID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid executor ID format")
		return
	}

	err = h.taskService.UpdateTask(r.Context(), actor, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ExecutorID:  executorID,
		Status:      domain.TaskStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// Delete handles the POST /tasks/{id}/delete endpoint. Deleting a task
// that is already gone still reports success.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), actor, taskID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log := logger.FromContextOrDefault(r.Context(), slog.Default())
	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("actor_id", actor.ID.String()))

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}

// SetStatus handles the POST /tasks/{id}/status endpoint. Every failure
// that is not a validation problem comes back as 403, so a probing
// executor cannot tell a foreign task from a missing one.
func (h *TaskHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	taskID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req SetStatusRequest
	if err := shared.DecodeRequest(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err = h.taskService.SetStatus(r.Context(), actor, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SuccessResponse{Success: true})
}
