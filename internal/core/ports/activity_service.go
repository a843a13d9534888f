package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// ActivityRecorder accepts activity entries for asynchronous persistence.
type ActivityRecorder interface {
	Record(a domain.TaskActivity)
}

// ActivityService stores and reads task activity.
type ActivityService interface {
	Process(ctx context.Context, a domain.TaskActivity) error
	History(ctx context.Context, taskID string) ([]domain.TaskActivity, error)
}
