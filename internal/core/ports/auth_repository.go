package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user and returns the storage-assigned id.
	// A second user with the same email yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (string, error)
}
