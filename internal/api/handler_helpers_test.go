package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/api"
	apimiddleware "github.com/taskdesk/taskdesk/internal/api/middleware"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/mocks"
	"github.com/taskdesk/taskdesk/internal/service"
	"github.com/taskdesk/taskdesk/internal/session"
)

const (
	testManagerSecret  = "manager-secret-code"
	testSessionSecret  = "0123456789abcdef0123456789abcdef"
	testSessionTTL     = time.Hour
	testDefaultPass    = "pass123"
	testDefaultAccount = "ivanov"
)

// flakySessionStore wraps a working session store and can be switched
// to fail individual operations mid-test.
type flakySessionStore struct {
	session.Store
	getErr    error
	deleteErr error
}

func (s *flakySessionStore) Get(ctx context.Context, token string) (*session.Session, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, token)
}

func (s *flakySessionStore) Delete(ctx context.Context, token string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	return s.Store.Delete(ctx, token)
}

// testEnv wires real services over mock stores behind the production
// route table, so handler tests exercise decode, auth, and error mapping
// the same way live traffic does.
type testEnv struct {
	router       chi.Router
	sessions     *session.Manager
	sessionStore *flakySessionStore
	userStore    *mocks.MockUserStore
	taskStore    *mocks.MockTaskStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	userStore := mocks.NewMockUserStore()
	taskStore := mocks.NewMockTaskStore()

	userService, err := service.NewUserService(
		userStore,
		&mocks.MockPasswordHasher{},
		&mocks.MockPasswordVerifier{},
		testManagerSecret,
		nil,
	)
	require.NoError(t, err)

	taskService, err := service.NewTaskService(taskStore, userStore, nil)
	require.NoError(t, err)

	sessionStore := &flakySessionStore{Store: session.NewMemoryStore()}
	sessions := session.NewManager(sessionStore, testSessionSecret, testSessionTTL, nil)

	authHandler := api.NewAuthHandler(userService, sessions, false)
	taskHandler := api.NewTaskHandler(taskService)
	userHandler := api.NewUserHandler(userService)
	authMW := apimiddleware.NewAuthMiddleware(sessions)

	r := chi.NewRouter()
	r.Use(apimiddleware.TraceMiddleware)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMW.Authenticate)
		r.Get("/logout", authHandler.Logout)
		r.Get("/api/user", userHandler.Me)
		r.Get("/api/tasks", taskHandler.List)
		r.Get("/api/executors", userHandler.ListExecutors)
		r.Post("/tasks", taskHandler.Create)
		r.Post("/tasks/{id}/update", taskHandler.Update)
		r.Post("/tasks/{id}/delete", taskHandler.Delete)
		r.Post("/tasks/{id}/status", taskHandler.SetStatus)
	})

	return &testEnv{
		router:       r,
		sessions:     sessions,
		sessionStore: sessionStore,
		userStore:    userStore,
		taskStore:    taskStore,
	}
}

// mustAddUser registers a user directly in the store and returns it.
func (e *testEnv) mustAddUser(t *testing.T, username string, role domain.Role, fullName string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(username, role, fullName)
	require.NoError(t, err)
	user.HashedPassword = "hashed:" + testDefaultPass
	require.NoError(t, e.userStore.Create(context.Background(), user))
	e.taskStore.Names[user.ID] = user.FullName
	return user
}

// sessionCookie creates a live session for the user.
func (e *testEnv) sessionCookie(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()
	value, err := e.sessions.Login(context.Background(), session.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		FullName: user.FullName,
	})
	require.NoError(t, err)
	return &http.Cookie{Name: apimiddleware.SessionCookieName, Value: value}
}

// doJSON performs a JSON request against the router.
func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// doForm performs an urlencoded form request against the router.
func (e *testEnv) doForm(t *testing.T, method, path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a JSON response body into out.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
}
