package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskserver/task-api/internal/core/domain"
)

// Context keys set by Auth.
const (
	ClaimsKey = "claims"
	EmailKey  = "email"
	UserIDKey = "user_id"
)

// TokenVerifier decodes a raw bearer token.
type TokenVerifier interface {
	VerifyToken(token string) (*domain.Claims, error)
}

// Auth validates the bearer token and injects its claims into the context.
// A missing header is rejected with 403, anything unverifiable with 401.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusForbidden, "No token provided").SetInternal(domain.ErrNoToken)
			}

			parts := strings.Fields(authHeader)
			if len(parts) < 2 {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").SetInternal(domain.ErrInvalidToken)
			}

			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token").SetInternal(domain.ErrInvalidToken)
			}

			c.Set(ClaimsKey, claims)
			c.Set(EmailKey, claims.Email)
			c.Set(UserIDKey, claims.UserID)

			return next(c)
		}
	}
}
