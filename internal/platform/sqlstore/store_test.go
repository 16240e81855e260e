package sqlstore

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// newTestDB opens an in-memory SQLite database with the schema applied.
// goose keeps process-global migration state, so tests using this helper
// must not run in parallel with each other.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return db
}

// mustCreateUser inserts a user with the given role and returns it.
func mustCreateUser(t *testing.T, s *UserStore, username string, role domain.Role, fullName string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, role, fullName)
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$fixedhashforstoretests1234567890123456789012345"

	require.NoError(t, s.Create(context.Background(), user))
	return user
}

// mustCreateTask inserts a task and returns it.
func mustCreateTask(
	t *testing.T,
	s *TaskStore,
	title string,
	creatorID, executorID uuid.UUID,
) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(title, "", creatorID, executorID)
	require.NoError(t, err)

	require.NoError(t, s.Create(context.Background(), task))
	return task
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestMigrationsCreateSchema(t *testing.T) {
	db := newTestDB(t)

	// Both tables must exist and accept inserts after migration.
	userStore := NewUserStore(db, nil)
	taskStore := NewTaskStore(db, nil)

	manager := mustCreateUser(t, userStore, "manager", domain.RoleManager, "Ivan Ivanov")
	executor := mustCreateUser(t, userStore, "executor1", domain.RoleExecutor, "Petr Petrov")
	mustCreateTask(t, taskStore, "Design", manager.ID, executor.ID)
}

func TestStatusCheckConstraint(t *testing.T) {
	db := newTestDB(t)

	userStore := NewUserStore(db, nil)
	manager := mustCreateUser(t, userStore, "manager", domain.RoleManager, "Ivan Ivanov")
	executor := mustCreateUser(t, userStore, "executor1", domain.RoleExecutor, "Petr Petrov")

	// The legal status set is enforced by a CHECK constraint at the storage
	// layer; an out-of-set value must be rejected by the database itself.
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO tasks (id, title, description, status, created_at, creator_id, executor_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New(), "Bad status", "", "paused", time.Now().UTC(), manager.ID, executor.ID,
	)
	require.Error(t, err)
	require.Contains(t, err.Error(), "CHECK")
}
