package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Ids are the
// hex form of the storage-native identifier; a malformed id yields
// domain.ErrInvalidTaskID.
type TaskRepository interface {
	List(ctx context.Context) ([]domain.Task, error)
	FindByID(ctx context.Context, id string) (*domain.Task, error)
	Insert(ctx context.Context, fields domain.TaskFields) (string, error)
	// Delete returns the number of removed documents.
	Delete(ctx context.Context, id string) (int64, error)
	// SetStatus returns matched and modified counts.
	SetStatus(ctx context.Context, id, status string) (matched, modified int64, err error)
}
