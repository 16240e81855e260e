// Package authz implements the authorization gate: a pure decision
// function over (action, actor, task) with no side effects and no store
// access. Callers derive the actor from the session once per request and
// pass it explicitly; nothing here reads ambient state.
package authz

import (
	"errors"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/domain"
)

// Action enumerates the operations the gate can rule on.
type Action string

// Actions the gate rules on.
const (
	ActionListTasks     Action = "list_tasks"
	ActionListExecutors Action = "list_executors"
	ActionCreateTask    Action = "create_task"
	ActionUpdateTask    Action = "update_task"
	ActionDeleteTask    Action = "delete_task"
	ActionSetStatus     Action = "set_status"
	ActionViewIdentity  Action = "view_identity"
)

// ErrDenied is returned for every denied decision. The reason is
// deliberately not encoded in the error: a denial caused by a missing
// task and one caused by foreign ownership must be indistinguishable to
// the caller, so task existence never leaks.
var ErrDenied = errors.New("access denied")

// Actor is the authenticated identity an operation runs as.
type Actor struct {
	ID   uuid.UUID
	Role domain.Role
}

// IsManager reports whether the actor holds the manager role.
func (a Actor) IsManager() bool {
	return a.Role == domain.RoleManager
}

// IsExecutor reports whether the actor holds the executor role.
func (a Actor) IsExecutor() bool {
	return a.Role == domain.RoleExecutor
}

// Decide rules on whether the actor may perform the action. For
// ActionSetStatus the task must be supplied; a nil task is a denial, not
// an error, because "no such task" and "not your task" are surfaced
// identically. For every other action the task argument is ignored.
// Returns nil to allow and ErrDenied to deny.
func Decide(action Action, actor Actor, task *domain.Task) error {
	switch action {
	case ActionListTasks, ActionViewIdentity:
		// Any authenticated actor. List results are scoped by the task
		// service; identity is always the actor's own.
		if !actor.Role.Valid() {
			return ErrDenied
		}
		return nil

	case ActionListExecutors, ActionCreateTask, ActionUpdateTask, ActionDeleteTask:
		if !actor.IsManager() {
			return ErrDenied
		}
		return nil

	case ActionSetStatus:
		if !actor.IsExecutor() {
			return ErrDenied
		}
		if task == nil || task.ExecutorID != actor.ID {
			return ErrDenied
		}
		return nil

	default:
		// Unknown actions are always denied.
		return ErrDenied
	}
}
