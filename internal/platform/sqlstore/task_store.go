package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/internal/store"
)

// TaskStore implements the store.TaskStore interface using a relational
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new SQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized
// and managed by the caller. If logger is nil, a default logger will be used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the creator or executor reference does
// not exist (foreign key violation).
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, created_at, deadline, creator_id, executor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		task.CreatedAt,
		task.Deadline,
		task.CreatorID,
		task.ExecutorID,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("creator or executor reference gone during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("executor_id", task.ExecutorID.String()))
			return fmt.Errorf("%w: creator or executor does not exist", store.ErrInvalidEntity)
		}

		mapped := MapError(err)
		if errors.Is(mapped, store.ErrInvalidEntity) {
			log.Warn("constraint violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return mapped
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return mapped
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", task.CreatorID.String()),
		slog.String("executor_id", task.ExecutorID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, status, created_at, deadline, creator_id, executor_id
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var status string
	var deadline sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.CreatedAt,
		&deadline,
		&task.CreatorID,
		&task.ExecutorID,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	task.Status = domain.TaskStatus(status)
	if deadline.Valid {
		task.Deadline = &deadline.Time
	}

	return &task, nil
}

// List implements store.TaskStore.List
// It returns tasks matching the query, joined with the full names of their
// creator and executor, ordered by descending creation time. The query's
// Scope clause is always rendered first; when a scope executor is present,
// any filter executor is ignored (actor scoping wins).
func (s *TaskStore) List(ctx context.Context, q store.TaskQuery) ([]*store.TaskWithNames, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args := buildListQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*store.TaskWithNames
	for rows.Next() {
		var row store.TaskWithNames
		var status string
		var deadline sql.NullTime

		err := rows.Scan(
			&row.ID,
			&row.Title,
			&row.Description,
			&status,
			&row.CreatedAt,
			&deadline,
			&row.CreatorID,
			&row.ExecutorID,
			&row.CreatorName,
			&row.ExecutorName,
		)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}

		row.Status = domain.TaskStatus(status)
		if deadline.Valid {
			row.Deadline = &deadline.Time
		}
		tasks = append(tasks, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("tasks listed", slog.Int("count", len(tasks)))
	return tasks, nil
}

// buildListQuery renders the task listing SQL from a TaskQuery. The scope
// condition is appended before any filter condition, so the actor
// restriction can never be displaced by caller-supplied filters.
func buildListQuery(q store.TaskQuery) (string, []any) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT t.id, t.title, t.description, t.status, t.created_at, t.deadline,
		       t.creator_id, t.executor_id,
		       u1.full_name AS creator_name, u2.full_name AS executor_name
		FROM tasks t
		JOIN users u1 ON t.creator_id = u1.id
		JOIN users u2 ON t.executor_id = u2.id
	`)

	var conds []string
	var args []any

	appendCond := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	// Mandatory actor scope first.
	if q.Scope.ExecutorID != nil {
		appendCond("t.executor_id", *q.Scope.ExecutorID)
	} else if q.Filter.ExecutorID != nil {
		appendCond("t.executor_id", *q.Filter.ExecutorID)
	}

	if q.Filter.Status != nil {
		appendCond("t.status", string(*q.Filter.Status))
	}

	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	sb.WriteString(" ORDER BY t.created_at DESC")

	return sb.String(), args
}

// Update implements store.TaskStore.Update
// It overwrites the four mutable fields of an existing task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	title, description string,
	executorID uuid.UUID,
	status domain.TaskStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, description = $2, executor_id = $3, status = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(ctx, query, title, description, executorID, string(status), id)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found during update", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
// It sets only the status field of an existing task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET status = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, string(status), id)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}

	if rowsAffected == 0 {
		log.Debug("task not found during status update", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task status updated",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// It removes a task from the store by its ID. Deleting a task that does
// not exist is a no-op.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1`

	if _, err := s.db.ExecContext(ctx, query, id); err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	log.Info("task deleted", slog.String("task_id", id.String()))
	return nil
}
