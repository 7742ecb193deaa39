package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	"task-vault.com/task-vault/internal/http/validators"
	model "task-vault.com/task-vault/internal/models"
	"task-vault.com/task-vault/internal/services"
)

type TaskHandler struct {
	tasks           *services.TaskService
	defaultPageSize int
	maxPageSize     int
}

func NewTaskHandler(tasks *services.TaskService, defaultPageSize, maxPageSize int) *TaskHandler {
	return &TaskHandler{
		tasks:           tasks,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

func (h *TaskHandler) List(c echo.Context) error {
	filters, err := validators.ParseTaskFilters(c)
	if err != nil {
		return fail(c, err)
	}
	page, limit, err := validators.ParsePagination(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return fail(c, err)
	}

	filters.Limit = limit
	filters.Offset = (page - 1) * limit

	tasks, total, err := h.tasks.List(c.Request().Context(), filters)
	if err != nil {
		return fail(c, err)
	}

	return respondPage(c, "tasks retrieved", tasks, dto.NewPagination(page, limit, total))
}

func (h *TaskHandler) Create(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return fail(c, err)
	}

	task, err := h.tasks.Create(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}

	return respond(c, http.StatusCreated, "task created", task)
}

func (h *TaskHandler) Get(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	task, err := h.tasks.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}

	return respond(c, http.StatusOK, "task retrieved", task)
}

func (h *TaskHandler) Update(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return fail(c, err)
	}
	if req.Empty() {
		task, err := h.tasks.Get(c.Request().Context(), id)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, "no changes detected", echo.Map{
			"task":           task,
			"changed_fields": []string{},
		})
	}

	task, changed, err := h.tasks.Update(c.Request().Context(), id, req)
	if err != nil {
		return fail(c, err)
	}

	message := "task updated"
	if len(changed) == 0 {
		message = "no changes detected"
	}
	return respond(c, http.StatusOK, message, echo.Map{
		"task":           task,
		"changed_fields": changed,
	})
}

func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.tasks.Delete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}

	return respond(c, http.StatusOK, "task moved to trash", echo.Map{
		"id":           id,
		"restore":      "POST /api/v1/tasks/" + c.Param("id") + "/restore",
		"force_delete": "DELETE /api/v1/tasks/" + c.Param("id") + "/force",
	})
}

func (h *TaskHandler) Restore(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	task, err := h.tasks.Restore(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}

	return respond(c, http.StatusOK, "task restored", task)
}

func (h *TaskHandler) ForceDelete(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	if err := h.tasks.ForceDelete(c.Request().Context(), id); err != nil {
		return fail(c, err)
	}

	return respond(c, http.StatusOK, "task permanently deleted", echo.Map{"id": id})
}

func (h *TaskHandler) Trashed(c echo.Context) error {
	tasks, err := h.tasks.Trashed(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "trashed tasks retrieved", tasks)
}

func (h *TaskHandler) Stats(c echo.Context) error {
	stats, err := h.tasks.Stats(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "task statistics", stats)
}

func (h *TaskHandler) Complete(c echo.Context) error {
	return h.statusChange(c, h.tasks.MarkComplete, "task completed")
}

func (h *TaskHandler) Start(c echo.Context) error {
	return h.statusChange(c, h.tasks.MarkInProgress, "task started")
}

func (h *TaskHandler) Cancel(c echo.Context) error {
	return h.statusChange(c, h.tasks.MarkCancelled, "task cancelled")
}

func (h *TaskHandler) Assign(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	var req dto.AssignTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if req.AssignedTo == 0 {
		return fail(c, apperrors.NewValidationError("invalid assignment payload",
			map[string]string{"assigned_to": "must be a positive integer"}))
	}

	task, _, err := h.tasks.Assign(c.Request().Context(), id, req.AssignedTo)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "task assigned", task)
}

func (h *TaskHandler) Unassign(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	task, _, err := h.tasks.Unassign(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "task unassigned", task)
}

func (h *TaskHandler) BulkCreate(c echo.Context) error {
	var req dto.BulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if len(req.Tasks) == 0 {
		return fail(c, apperrors.NewValidationError("bulk payload must contain at least one task", nil))
	}

	summary := h.tasks.BulkCreate(c.Request().Context(), req.Tasks, validators.ValidateCreateTaskRequest)
	return respond(c, http.StatusOK, "bulk create finished", summary)
}

func (h *TaskHandler) BulkUpdate(c echo.Context) error {
	var req dto.BulkUpdateRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if len(req.Tasks) == 0 {
		return fail(c, apperrors.NewValidationError("bulk payload must contain at least one task", nil))
	}

	summary := h.tasks.BulkUpdate(c.Request().Context(), req.Tasks, validators.ValidateUpdateTaskRequest)
	return respond(c, http.StatusOK, "bulk update finished", summary)
}

func (h *TaskHandler) BulkDelete(c echo.Context) error {
	var req dto.BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload"))
	}
	if len(req.IDs) == 0 {
		return fail(c, apperrors.NewValidationError("bulk payload must contain at least one id", nil))
	}

	summary := h.tasks.BulkDelete(c.Request().Context(), req.IDs)
	return respond(c, http.StatusOK, "bulk delete finished", summary)
}

func (h *TaskHandler) statusChange(
	c echo.Context,
	op func(ctx context.Context, id uint) (*model.Task, []string, error),
	message string,
) error {
	id, err := taskID(c)
	if err != nil {
		return fail(c, err)
	}

	task, _, err := op(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, message, task)
}

func taskID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "task id must be a positive integer")
	}
	return uint(id), nil
}
