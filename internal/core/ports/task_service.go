package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// StatusUpdateResult reports the outcome of marking a task complete.
type StatusUpdateResult struct {
	ModifiedCount int64
}

// TaskService defines use-case operations for tasks. The actor is the email
// of the authenticated caller, or empty for unauthenticated routes.
type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (*domain.Task, error)
	CreateTask(ctx context.Context, fields domain.TaskFields, actor string) (*domain.InsertResult, error)
	DeleteTask(ctx context.Context, id, actor string) (int64, error)
	CompleteTask(ctx context.Context, id, actor string) (*StatusUpdateResult, error)
}
