package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /alltask.
//
// @Summary      List every task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   object
// @Failure      401  {object}  map[string]any
// @Failure      403  {object}  map[string]any
// @Router       /alltask [get]
func (h *TaskHandler) List(c echo.Context) error {
	tasks, err := h.service.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id.
//
// @Summary      Get a task by id
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  object
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.service.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Create handles POST /task (and the legacy POST /alltask).
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      object  true  "Task fields"
// @Success      200   {object}  domain.InsertResult
// @Failure      400   {object}  map[string]any
// @Router       /task [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var fields domain.TaskFields
	if err := c.Echo().JSONSerializer.Deserialize(c, &fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "task must be a JSON object")
	}

	result, err := h.service.CreateTask(c.Request().Context(), fields, actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /alltask/:id.
//
// @Summary      Delete a task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  deleteTaskResponse
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /alltask/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	n, err := h.service.DeleteTask(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteTaskResponse{Message: "Task deleted", DeletedCount: n})
}

// Complete handles PATCH /tasks/:id/status.
//
// @Summary      Mark a task complete
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  statusUpdateResponse
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /tasks/{id}/status [patch]
func (h *TaskHandler) Complete(c echo.Context) error {
	res, err := h.service.CompleteTask(c.Request().Context(), c.Param("id"), actor(c))
	if err != nil {
		return err
	}

	msg := "Task marked complete"
	if res.ModifiedCount == 0 {
		msg = "Task already complete"
	}
	return c.JSON(http.StatusOK, statusUpdateResponse{Message: msg, ModifiedCount: res.ModifiedCount})
}
