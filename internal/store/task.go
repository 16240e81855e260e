package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// TaskScope is the mandatory actor-based restriction on a task listing.
// It is distinct from TaskFilter so that implementations always apply it
// first and callers cannot accidentally drop it by supplying filters.
// A nil ExecutorID means the actor may see every task (manager).
type TaskScope struct {
	ExecutorID *uuid.UUID
}

// TaskFilter holds the optional, caller-supplied narrowing of a task
// listing. Both fields are optional; nil means "no filter".
type TaskFilter struct {
	ExecutorID *uuid.UUID
	Status     *domain.TaskStatus
}

// TaskQuery combines the mandatory actor scope with optional filters.
// The service layer builds it; stores must honor Scope before Filter.
type TaskQuery struct {
	Scope  TaskScope
	Filter TaskFilter
}

// TaskWithNames is a task joined with the display names of its creator
// and executor, ready for presentation.
type TaskWithNames struct {
	domain.Task
	CreatorName  string `json:"creator_name"`
	ExecutorName string `json:"executor_name"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the creator or executor reference does
	// not exist (foreign key violation).
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks matching the query, joined with creator and
	// executor names, ordered by descending creation time. The query's
	// Scope is applied before any Filter.
	List(ctx context.Context, q TaskQuery) ([]*TaskWithNames, error)

	// Update overwrites the four mutable fields of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(
		ctx context.Context,
		id uuid.UUID,
		title, description string,
		executorID uuid.UUID,
		status domain.TaskStatus,
	) error

	// UpdateStatus sets only the status of an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error

	// Delete removes a task from the store by its ID. Deleting a task
	// that does not exist is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
