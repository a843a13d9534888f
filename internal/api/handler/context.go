package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/taskserver/task-api/internal/api/middleware"
)

// actor returns the email injected by the Auth middleware, or "" on routes
// that run without it.
func actor(c echo.Context) string {
	email, _ := c.Get(middleware.EmailKey).(string)
	return email
}
