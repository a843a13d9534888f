package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// ActivityRepository persists the per-task audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.TaskActivity) error
	// ListByTask returns entries for taskID in insertion order.
	ListByTask(ctx context.Context, taskID string) ([]domain.TaskActivity, error)
}
