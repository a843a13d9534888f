package ports

import (
	"context"

	"github.com/taskserver/task-api/internal/core/domain"
)

// SignupInput carries the signup form after transport-level validation.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string
	User  domain.PublicUser
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.InsertResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	VerifyToken(token string) (*domain.Claims, error)
}
