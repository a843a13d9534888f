package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskserver/task-api/internal/pkg/metrics"
	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

const passwordCost = 10

// SignupLock serialises concurrent signups for the same email (Redis).
type SignupLock interface {
	Acquire(ctx context.Context, email string) (bool, error)
	Release(ctx context.Context, email string) error
}

// AuthService implements signup, login and token verification.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenManager
	lock   SignupLock
	log    zerolog.Logger
}

// NewAuthService wires the service. lock may be nil, in which case only
// the storage uniqueness constraint protects against duplicate emails.
func NewAuthService(repo ports.UserRepository, tokens *TokenManager, lock SignupLock, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, lock: lock, log: log}
}

// Signup creates a new account unless the email is already registered.
func (s *AuthService) Signup(ctx context.Context, in ports.SignupInput) (*domain.InsertResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Signup")
	defer span.End()

	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx, in.Email)
		switch {
		case err != nil:
			s.log.Warn().Ctx(ctx).Err(err).Str("email", in.Email).Msg("signup lock unavailable, relying on unique index")
		case !ok:
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "in_progress").Inc()
			return nil, domain.ErrSignupInProgress
		default:
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), in.Email); err != nil {
					s.log.Warn().Err(err).Str("email", in.Email).Msg("failed to release signup lock")
				}
			}()
		}
	}

	_, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("signup", "exists").Inc()
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), passwordCost)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("signup", "exists").Inc()
		}
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("signup", "ok").Inc()
	s.log.Info().Ctx(ctx).Str("user_id", id).Msg("user signed up")

	return &domain.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "not_found").Inc()
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "bad_password").Inc()
		return nil, domain.ErrInvalidPassword
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return &ports.LoginResult{Token: token, User: user.Public()}, nil
}

// VerifyToken decodes a bearer token into claims.
func (s *AuthService) VerifyToken(token string) (*domain.Claims, error) {
	return s.tokens.Verify(token)
}
