package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/authz"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/platform/logger"
	"github.com/taskdesk/taskdesk/internal/store"
)

// ListTasksFilter is the caller-supplied narrowing of a task listing.
// Both fields are optional. Executor actors cannot widen their view with
// it: actor scoping is applied first and wins.
type ListTasksFilter struct {
	ExecutorID *uuid.UUID
	Status     *domain.TaskStatus
}

// CreateTaskInput is the input to TaskService.CreateTask. Deadline is
// optional and informational; no logic depends on it.
type CreateTaskInput struct {
	Title       string
	Description string
	ExecutorID  uuid.UUID
	Deadline    *time.Time
}

// UpdateTaskInput is the input to TaskService.UpdateTask. All four fields
// are written unconditionally (full-record overwrite of the mutable fields).
type UpdateTaskInput struct {
	Title       string
	Description string
	ExecutorID  uuid.UUID
	Status      domain.TaskStatus
}

// TaskService provides the authorization-scoped task operations.
type TaskService interface {
	// ListTasks returns the tasks visible to the actor, newest creation
	// time first, joined with creator and executor names. An executor
	// sees only their own tasks regardless of the filter; a manager sees
	// all tasks, optionally narrowed by the filter.
	ListTasks(ctx context.Context, actor authz.Actor, filter ListTasksFilter) ([]*store.TaskWithNames, error)

	// CreateTask creates a task assigned to the given executor, owned by
	// the acting manager, with status new.
	// Returns authz.ErrDenied unless the actor is a manager.
	// Returns ErrExecutorNotFound if the executor ID does not reference
	// an existing executor user.
	CreateTask(ctx context.Context, actor authz.Actor, in CreateTaskInput) (*domain.Task, error)

	// UpdateTask overwrites the title, description, executor, and status
	// of an existing task.
	// Returns authz.ErrDenied unless the actor is a manager.
	// Returns store.ErrTaskNotFound if the task does not exist.
	UpdateTask(ctx context.Context, actor authz.Actor, taskID uuid.UUID, in UpdateTaskInput) error

	// DeleteTask removes a task. Deleting a nonexistent task succeeds.
	// Returns authz.ErrDenied unless the actor is a manager.
	DeleteTask(ctx context.Context, actor authz.Actor, taskID uuid.UUID) error

	// SetStatus sets the status of a task the actor is assigned to. The
	// ownership check is re-confirmed against the stored row before the
	// write. Returns authz.ErrDenied both when the task does not exist
	// and when it is assigned to someone else, so existence never leaks.
	SetStatus(ctx context.Context, actor authz.Actor, taskID uuid.UUID, status domain.TaskStatus) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("%w: taskStore cannot be nil", domain.ErrValidation)
	}
	if userStore == nil {
		return nil, fmt.Errorf("%w: userStore cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(
	ctx context.Context,
	actor authz.Actor,
	filter ListTasksFilter,
) ([]*store.TaskWithNames, error) {
	if err := authz.Decide(authz.ActionListTasks, actor, nil); err != nil {
		return nil, err
	}

	q := store.TaskQuery{}
	if actor.IsExecutor() {
		// Scoping is mandatory for executors; the caller's executor
		// filter is discarded, never merged.
		q.Scope.ExecutorID = &actor.ID
		q.Filter.Status = filter.Status
	} else {
		q.Filter.ExecutorID = filter.ExecutorID
		q.Filter.Status = filter.Status
	}

	return s.taskStore.List(ctx, q)
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	actor authz.Actor,
	in CreateTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := authz.Decide(authz.ActionCreateTask, actor, nil); err != nil {
		return nil, err
	}

	if in.Title == "" {
		return nil, domain.ErrEmptyTaskTitle
	}
	if in.ExecutorID == uuid.Nil {
		return nil, domain.ErrEmptyTaskExecutorID
	}

	// Verifying the executor reference up front turns a foreign key
	// failure into a caller-addressable error.
	executor, err := s.userStore.GetByID(ctx, in.ExecutorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrExecutorNotFound
		}
		return nil, fmt.Errorf("failed to look up executor: %w", err)
	}
	if executor.Role != domain.RoleExecutor {
		return nil, ErrExecutorNotFound
	}

	task, err := domain.NewTask(in.Title, in.Description, actor.ID, in.ExecutorID)
	if err != nil {
		return nil, err
	}
	task.Deadline = in.Deadline

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", actor.ID.String()),
		slog.String("executor_id", in.ExecutorID.String()))
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	actor authz.Actor,
	taskID uuid.UUID,
	in UpdateTaskInput,
) error {
	if err := authz.Decide(authz.ActionUpdateTask, actor, nil); err != nil {
		return err
	}

	if in.Title == "" {
		return domain.ErrEmptyTaskTitle
	}
	if in.ExecutorID == uuid.Nil {
		return domain.ErrEmptyTaskExecutorID
	}
	if !in.Status.Valid() {
		return domain.ErrInvalidTaskStatus
	}

	return s.taskStore.Update(ctx, taskID, in.Title, in.Description, in.ExecutorID, in.Status)
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, actor authz.Actor, taskID uuid.UUID) error {
	if err := authz.Decide(authz.ActionDeleteTask, actor, nil); err != nil {
		return err
	}

	return s.taskStore.Delete(ctx, taskID)
}

// SetStatus implements TaskService.SetStatus
func (s *taskServiceImpl) SetStatus(
	ctx context.Context,
	actor authz.Actor,
	taskID uuid.UUID,
	status domain.TaskStatus,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.Valid() {
		return domain.ErrInvalidTaskStatus
	}

	// Read the specific row and let the gate rule on it. A missing task
	// and a task assigned to someone else both come back as ErrDenied.
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return authz.ErrDenied
		}
		return fmt.Errorf("failed to load task: %w", err)
	}

	if err := authz.Decide(authz.ActionSetStatus, actor, task); err != nil {
		return err
	}

	if err := s.taskStore.UpdateStatus(ctx, taskID, status); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			// Deleted between the read and the write; same uniform denial.
			return authz.ErrDenied
		}
		return err
	}

	log.Info("task status set",
		slog.String("task_id", taskID.String()),
		slog.String("executor_id", actor.ID.String()),
		slog.String("status", string(status)))
	return nil
}
