package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values. The assigned executor may write any value
// from this set at any time; no transition adjacency is enforced.
const (
	TaskStatusNew        TaskStatus = "new"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusRejected   TaskStatus = "rejected"
)

// Valid reports whether the status is in the allowed set.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusInProgress, TaskStatusCompleted, TaskStatusRejected:
		return true
	}
	return false
}

// Common validation errors for Task
var (
	ErrEmptyTaskID         = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrEmptyTaskCreatorID  = errors.New("task creator ID cannot be empty")
	ErrEmptyTaskExecutorID = errors.New("task executor ID cannot be empty")
)

// Task represents a unit of work created by a manager and assigned to an
// executor. CreatedAt is set once at creation and never changes. Deadline
// is informational only and is not consulted by any business rule.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	CreatorID   uuid.UUID  `json:"creator_id"`
	ExecutorID  uuid.UUID  `json:"executor_id"`
}

// NewTask creates a new Task assigned by the given manager to the given
// executor. It generates a new UUID for the task ID, sets the status to
// new, and sets the creation timestamp.
// Returns an error if validation fails.
func NewTask(title, description string, creatorID, executorID uuid.UUID) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusNew,
		CreatedAt:   time.Now().UTC(),
		CreatorID:   creatorID,
		ExecutorID:  executorID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyTaskCreatorID
	}

	if t.ExecutorID == uuid.Nil {
		return ErrEmptyTaskExecutorID
	}

	return nil
}
