package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/session"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	return session.NewManager(session.NewMemoryStore(), testSessionSecret, time.Hour, nil)
}

func loginCookie(t *testing.T, sessions *session.Manager, role domain.Role) *http.Cookie {
	t.Helper()
	value, err := sessions.Login(context.Background(), session.Identity{
		UserID:   uuid.New(),
		Role:     role,
		FullName: "Test User",
	})
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: value}
}

func identityEcho(t *testing.T, gotIdentity *session.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := middleware.GetIdentity(r)
		require.True(t, ok, "handler reached without identity in context")
		*gotIdentity = id
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate_ValidCookie(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions(t)
	cookie := loginCookie(t, sessions, domain.RoleManager)

	var got session.Identity
	handler := middleware.NewAuthMiddleware(sessions).Authenticate(identityEcho(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, domain.RoleManager, got.Role)
	assert.Equal(t, "Test User", got.FullName)
}

func TestAuthenticate_MissingCookie(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions(t)
	handler := middleware.NewAuthMiddleware(sessions).Authenticate(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	t.Run("API path gets 401 JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		assert.Contains(t, rr.Body.String(), "Authentication required")
	})

	t.Run("XHR request gets 401 JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("page request is redirected to login", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept", "text/html")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, middleware.LoginPath, rr.Header().Get("Location"))
	})
}

func TestAuthenticate_BadCookies(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions(t)
	handler := middleware.NewAuthMiddleware(sessions).Authenticate(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	tests := []struct {
		name  string
		value string
	}{
		{name: "garbage value", value: "not-a-session"},
		{name: "forged signature", value: "deadbeef.deadbeef"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: tc.value})
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

// brokenSessionStore accepts writes but fails every read, like a bbolt
// file that went away after startup.
type brokenSessionStore struct {
	session.Store
	err error
}

func (s *brokenSessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	return nil, s.err
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	t.Parallel()

	store := &brokenSessionStore{Store: session.NewMemoryStore(), err: errors.New("database not open")}
	sessions := session.NewManager(store, testSessionSecret, time.Hour, nil)
	cookie := loginCookie(t, sessions, domain.RoleExecutor)

	handler := middleware.NewAuthMiddleware(sessions).Authenticate(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	// The cookie may well be valid; an unreadable store is a server
	// error, not an anonymous request.
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Internal server error")
}

func TestRedirectAuthenticated_StoreFailure(t *testing.T) {
	t.Parallel()

	store := &brokenSessionStore{Store: session.NewMemoryStore(), err: errors.New("database not open")}
	sessions := session.NewManager(store, testSessionSecret, time.Hour, nil)
	cookie := loginCookie(t, sessions, domain.RoleExecutor)

	handler := middleware.NewAuthMiddleware(sessions).RedirectAuthenticated("/")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("page should not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestAuthenticate_DestroyedSession(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions(t)
	cookie := loginCookie(t, sessions, domain.RoleExecutor)
	require.NoError(t, sessions.Destroy(context.Background(), cookie.Value))

	handler := middleware.NewAuthMiddleware(sessions).Authenticate(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRedirectAuthenticated(t *testing.T) {
	t.Parallel()

	sessions := newTestSessions(t)
	cookie := loginCookie(t, sessions, domain.RoleExecutor)

	page := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.NewAuthMiddleware(sessions).RedirectAuthenticated("/")(page)

	t.Run("signed-in user is redirected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "/", rr.Header().Get("Location"))
	})

	t.Run("anonymous user sees the page", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestCORSMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("configured origin adds headers", func(t *testing.T) {
		handler := middleware.CORSMiddleware("http://localhost:5173")(next)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight is short-circuited", func(t *testing.T) {
		handler := middleware.CORSMiddleware("http://localhost:5173")(next)
		req := httptest.NewRequest(http.MethodOptions, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("empty origin is a no-op", func(t *testing.T) {
		handler := middleware.CORSMiddleware("")(next)
		req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	})
}
