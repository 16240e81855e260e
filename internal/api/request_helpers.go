package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/api/shared"
	"github.com/taskdesk/taskdesk/internal/authz"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/session"
)

// actorFromContext builds the authorization actor for the authenticated
// identity. The second return value is false when the auth middleware did
// not run, which is a routing mistake, not a user error.
func actorFromContext(r *http.Request) (authz.Actor, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok || id.UserID == uuid.Nil {
		return authz.Actor{}, false
	}
	return authz.Actor{ID: id.UserID, Role: id.Role}, true
}

// identityFromContext returns the full session identity, including the
// display name the data endpoints echo back.
func identityFromContext(r *http.Request) (session.Identity, bool) {
	id, ok := shared.IdentityFromContext(r.Context())
	if !ok || id.UserID == uuid.Nil {
		return session.Identity{}, false
	}
	return id, true
}

// getPathUUID extracts a UUID from the named chi URL parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// deadline input formats, tried in order
var deadlineFormats = []string{time.RFC3339, "2006-01-02"}

// parseDeadline parses an optional deadline string. An empty string is a
// nil deadline, not an error.
func parseDeadline(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	var lastErr error
	for _, format := range deadlineFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
