package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskserver/task-api/internal/core/ports"
)

// ActivityHandler serves the per-task audit trail.
type ActivityHandler struct {
	service ports.ActivityService
}

func NewActivityHandler(service ports.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: service}
}

// History handles GET /tasks/:id/activity.
//
// @Summary      Task activity
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {array}   domain.TaskActivity
// @Failure      400  {object}  map[string]any
// @Router       /tasks/{id}/activity [get]
func (h *ActivityHandler) History(c echo.Context) error {
	entries, err := h.service.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
