package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskserver/task-api/internal/core/domain"
)

// Error kinds rendered in the "kind" field of every error body.
const (
	KindValidation     = "validation"
	KindConflict       = "conflict"
	KindAuthentication = "authentication"
	KindNotFound       = "not_found"
	KindInternal       = "internal"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Kind    string              `json:"kind"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"kind": "...", "message": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Kind: KindValidation, Message: "validation failed", Errors: ve.Fields}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidTaskID):
		return http.StatusBadRequest, errorResponse{Kind: KindValidation, Message: "invalid task id"}
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, errorResponse{Kind: KindConflict, Message: "User already exists"}
	case errors.Is(err, domain.ErrSignupInProgress):
		return http.StatusConflict, errorResponse{Kind: KindConflict, Message: "Signup already in progress"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, errorResponse{Kind: KindAuthentication, Message: "User not found"}
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, errorResponse{Kind: KindAuthentication, Message: "Invalid password"}
	case errors.Is(err, domain.ErrNoToken):
		return http.StatusForbidden, errorResponse{Kind: KindAuthentication, Message: "No token provided"}
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorResponse{Kind: KindAuthentication, Message: "Invalid token"}
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, errorResponse{Kind: KindNotFound, Message: "Task not found"}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Kind: kindForStatus(he.Code), Message: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().Ctx(c.Request().Context()).
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Kind: KindInternal, Message: "internal server error"}
}

func kindForStatus(code int) string {
	switch {
	case code == http.StatusNotFound:
		return KindNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuthentication
	case code == http.StatusConflict:
		return KindConflict
	case code >= 400 && code < 500:
		return KindValidation
	default:
		return KindInternal
	}
}
