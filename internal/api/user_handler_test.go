package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/api"
	"github.com/taskdesk/taskdesk/internal/domain"
)

func TestMeEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	user := env.mustAddUser(t, "exec1", domain.RoleExecutor, "First Executor")

	rr := env.doJSON(t, http.MethodGet, "/api/user", nil, env.sessionCookie(t, user))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp api.IdentityResponse
	decodeBody(t, rr, &resp)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "executor", resp.Role)
	assert.Equal(t, "First Executor", resp.FullName)

	// The password hash must never appear anywhere in the body.
	assert.NotContains(t, rr.Body.String(), "hashed:")
}

func TestListExecutorsEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	manager := env.mustAddUser(t, "boss", domain.RoleManager, "The Boss")
	env.mustAddUser(t, "exec2", domain.RoleExecutor, "Second Executor")
	env.mustAddUser(t, "exec1", domain.RoleExecutor, "First Executor")

	t.Run("manager gets executors sorted by name", func(t *testing.T) {
		rr := env.doJSON(t, http.MethodGet, "/api/executors", nil, env.sessionCookie(t, manager))

		require.Equal(t, http.StatusOK, rr.Code)

		var resp []api.ExecutorResponse
		decodeBody(t, rr, &resp)
		require.Len(t, resp, 2)
		assert.Equal(t, "First Executor", resp[0].FullName)
		assert.Equal(t, "Second Executor", resp[1].FullName)
	})

	t.Run("executor is 403", func(t *testing.T) {
		executor := env.mustAddUser(t, "exec3", domain.RoleExecutor, "Third Executor")
		rr := env.doJSON(t, http.MethodGet, "/api/executors", nil, env.sessionCookie(t, executor))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
