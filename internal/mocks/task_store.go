package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/taskdesk/taskdesk/internal/domain"
	"github.com/taskdesk/taskdesk/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn       func(ctx context.Context, task *domain.Task) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	ListFn         func(ctx context.Context, q store.TaskQuery) ([]*store.TaskWithNames, error)
	UpdateFn       func(ctx context.Context, id uuid.UUID, title, description string, executorID uuid.UUID, status domain.TaskStatus) error
	UpdateStatusFn func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error
	DeleteFn       func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Tasks map[uuid.UUID]*domain.Task
	// Names returns the display name for a user ID in List results.
	Names map[uuid.UUID]string

	// LastQuery records the most recent List query for assertions.
	LastQuery store.TaskQuery
}

// confirm interface satisfaction
var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
		Names: make(map[uuid.UUID]string),
	}
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.Tasks[task.ID] = task
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// List implements the TaskStore interface. The default honors Scope before
// Filter the way the SQL implementation does, so service scoping tests can
// run against it.
func (m *MockTaskStore) List(ctx context.Context, q store.TaskQuery) ([]*store.TaskWithNames, error) {
	m.LastQuery = q

	if m.ListFn != nil {
		return m.ListFn(ctx, q)
	}

	out := make([]*store.TaskWithNames, 0)
	for _, task := range m.Tasks {
		if q.Scope.ExecutorID != nil && task.ExecutorID != *q.Scope.ExecutorID {
			continue
		}
		if q.Filter.ExecutorID != nil && task.ExecutorID != *q.Filter.ExecutorID {
			continue
		}
		if q.Filter.Status != nil && task.Status != *q.Filter.Status {
			continue
		}
		out = append(out, &store.TaskWithNames{
			Task:         *task,
			CreatorName:  m.Names[task.CreatorID],
			ExecutorName: m.Names[task.ExecutorID],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Update implements the TaskStore interface
func (m *MockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	title, description string,
	executorID uuid.UUID,
	status domain.TaskStatus,
) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, id, title, description, executorID, status)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return store.ErrTaskNotFound
	}
	task.Title = title
	task.Description = description
	task.ExecutorID = executorID
	task.Status = status
	return nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	task, exists := m.Tasks[id]
	if !exists {
		return store.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	delete(m.Tasks, id)
	return nil
}
