package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskdesk/taskdesk/internal/api/shared"
	"github.com/taskdesk/taskdesk/internal/session"
)

// SessionCookieName is the name of the session cookie. The value is an
// opaque signed token; nothing about the user is readable from it.
const SessionCookieName = "taskdesk_sid"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// AuthMiddleware provides cookie-session authentication for routes.
type AuthMiddleware struct {
	sessions *session.Manager
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	if sessions == nil {
		panic("middleware: session manager cannot be nil")
	}
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate validates the session cookie and adds the identity to the
// request context for authorized requests. Unauthenticated API requests
// get a 401 JSON body; unauthenticated page requests are redirected to
// the login page. A session store failure is a 500, not a 401: the
// caller may well hold a valid session that simply could not be read.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := m.identify(r)
		if err != nil {
			if errors.Is(err, session.ErrInvalidSession) {
				m.reject(w, r)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error", err)
			return
		}

		ctx := shared.WithIdentity(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated sends requests that already carry a valid session
// to the given path. Used on the login and register pages so a signed-in
// user lands on the task list instead.
func (m *AuthMiddleware) RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := m.identify(r)
			switch {
			case err == nil:
				http.Redirect(w, r, target, http.StatusFound)
			case errors.Is(err, session.ErrInvalidSession):
				next.ServeHTTP(w, r)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Internal server error", err)
			}
		})
	}
}

// identify extracts and validates the session cookie. A missing cookie,
// a bad signature, an unknown token, and an expired session all come
// back as ErrInvalidSession; anything else is a session store failure
// and must not be mistaken for an anonymous request.
func (m *AuthMiddleware) identify(r *http.Request) (session.Identity, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return session.Identity{}, session.ErrInvalidSession
	}

	return m.sessions.Validate(r.Context(), cookie.Value)
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request) {
	if WantsJSON(r) {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	http.Redirect(w, r, LoginPath, http.StatusFound)
}

// WantsJSON reports whether the request expects a machine-readable error
// rather than an HTML redirect. API paths and XHR-style requests qualify.
func WantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	if r.Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "application/json")
}

// GetIdentity extracts the authenticated identity from the request context.
// Returns the identity and a boolean indicating if it was found.
func GetIdentity(r *http.Request) (session.Identity, bool) {
	return shared.IdentityFromContext(r.Context())
}
