package api

import (
	"net/http"

	"github.com/taskdesk/taskdesk/internal/api/shared"
	"github.com/taskdesk/taskdesk/internal/service"
)

// UserHandler handles the identity and executor listing endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// Me handles the GET /api/user endpoint. The response comes straight from
// the session record; no database read is needed.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := identityFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, IdentityResponse{
		ID:       id.UserID,
		Role:     string(id.Role),
		FullName: id.FullName,
	})
}

// ListExecutors handles the GET /api/executors endpoint, feeding the
// assignment picker on the manager's task form.
func (h *UserHandler) ListExecutors(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	executors, err := h.userService.ListExecutors(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	out := make([]ExecutorResponse, 0, len(executors))
	for _, e := range executors {
		out = append(out, ExecutorResponse{ID: e.ID, FullName: e.FullName})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
