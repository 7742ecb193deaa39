package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
	"task-vault.com/task-vault/internal/http/validators"
	"task-vault.com/task-vault/internal/services"
)

type LogHandler struct {
	logs             *services.LogService
	defaultPageSize  int
	maxPageSize      int
	defaultRetention int
}

func NewLogHandler(logs *services.LogService, defaultPageSize, maxPageSize, defaultRetention int) *LogHandler {
	return &LogHandler{
		logs:             logs,
		defaultPageSize:  defaultPageSize,
		maxPageSize:      maxPageSize,
		defaultRetention: defaultRetention,
	}
}

// List also serves single-record fetches via ?id= for older clients.
func (h *LogHandler) List(c echo.Context) error {
	if id := c.QueryParam("id"); id != "" {
		entry, err := h.logs.Get(c.Request().Context(), id)
		if err != nil {
			return fail(c, err)
		}
		return respond(c, http.StatusOK, "log entry retrieved", entry)
	}

	filters, err := validators.ParseLogFilters(c)
	if err != nil {
		return fail(c, err)
	}
	page, limit, err := validators.ParsePagination(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return fail(c, err)
	}

	logs, total, stats, err := h.logs.List(c.Request().Context(), filters, limit, (page-1)*limit)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: "logs retrieved",
		Data: echo.Map{
			"logs":  logs,
			"stats": stats,
		},
		Meta: &dto.Meta{Pagination: dto.NewPagination(page, limit, total)},
	})
}

func (h *LogHandler) Get(c echo.Context) error {
	entry, err := h.logs.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "log entry retrieved", entry)
}

func (h *LogHandler) TaskLogs(c echo.Context) error {
	raw := c.Param("task_id")
	taskID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || taskID == 0 {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "task id must be a positive integer"))
	}

	limit := h.maxPageSize
	if rawLimit := c.QueryParam("limit"); rawLimit != "" {
		limit, err = strconv.Atoi(rawLimit)
		if err != nil || limit < 1 || limit > h.maxPageSize {
			return fail(c, apperrors.ErrInvalidPagination)
		}
	}

	logs, err := h.logs.TaskLogs(c.Request().Context(), uint(taskID), limit)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "task logs retrieved", logs)
}

func (h *LogHandler) Stats(c echo.Context) error {
	var from, to *time.Time
	if raw := c.QueryParam("date_from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fail(c, apperrors.NewValidationError("invalid date range",
				map[string]string{"date_from": "must be an RFC3339 timestamp"}))
		}
		from = &ts
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fail(c, apperrors.NewValidationError("invalid date range",
				map[string]string{"date_to": "must be an RFC3339 timestamp"}))
		}
		to = &ts
	}

	stats, err := h.logs.Stats(c.Request().Context(), from, to)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "log statistics", stats)
}

func (h *LogHandler) Recent(c echo.Context) error {
	limit := h.defaultPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		var err error
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > h.maxPageSize {
			return fail(c, apperrors.ErrInvalidPagination)
		}
	}

	logs, err := h.logs.Recent(c.Request().Context(), limit)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "recent logs retrieved", logs)
}

func (h *LogHandler) ByAction(c echo.Context) error {
	page, limit, err := validators.ParsePagination(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return fail(c, err)
	}

	logs, total, err := h.logs.ByAction(c.Request().Context(), c.Param("action"), limit, (page-1)*limit)
	if err != nil {
		return fail(c, err)
	}
	return respondPage(c, "logs retrieved", logs, dto.NewPagination(page, limit, total))
}

func (h *LogHandler) ByUser(c echo.Context) error {
	raw := c.Param("user_id")
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return fail(c, echo.NewHTTPError(http.StatusBadRequest, "user id must be a positive integer"))
	}

	page, limit, err := validators.ParsePagination(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return fail(c, err)
	}

	logs, total, err := h.logs.ByUser(c.Request().Context(), uint(userID), limit, (page-1)*limit)
	if err != nil {
		return fail(c, err)
	}
	return respondPage(c, "logs retrieved", logs, dto.NewPagination(page, limit, total))
}

func (h *LogHandler) DateRange(c echo.Context) error {
	fromRaw, toRaw := c.QueryParam("date_from"), c.QueryParam("date_to")
	if fromRaw == "" || toRaw == "" {
		return fail(c, apperrors.NewValidationError("date range is required",
			map[string]string{"date_from": "required", "date_to": "required"}))
	}

	from, err := time.Parse(time.RFC3339, fromRaw)
	if err != nil {
		return fail(c, apperrors.NewValidationError("invalid date range",
			map[string]string{"date_from": "must be an RFC3339 timestamp"}))
	}
	to, err := time.Parse(time.RFC3339, toRaw)
	if err != nil {
		return fail(c, apperrors.NewValidationError("invalid date range",
			map[string]string{"date_to": "must be an RFC3339 timestamp"}))
	}

	page, limit, err := validators.ParsePagination(c, h.defaultPageSize, h.maxPageSize)
	if err != nil {
		return fail(c, err)
	}

	logs, total, err := h.logs.DateRange(c.Request().Context(), from, to, limit, (page-1)*limit)
	if err != nil {
		return fail(c, err)
	}
	return respondPage(c, "logs retrieved", logs, dto.NewPagination(page, limit, total))
}

func (h *LogHandler) Export(c echo.Context) error {
	logs, err := h.logs.Export(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="task_logs.json"`)
	return c.JSON(http.StatusOK, logs)
}

func (h *LogHandler) Cleanup(c echo.Context) error {
	days := h.defaultRetention
	if raw := c.QueryParam("retention_days"); raw != "" {
		var err error
		days, err = strconv.Atoi(raw)
		if err != nil {
			return fail(c, apperrors.NewValidationError("retention_days must be a positive integer",
				map[string]string{"retention_days": "must be >= 1"}))
		}
	}

	removed, err := h.logs.Cleanup(c.Request().Context(), days)
	if err != nil {
		return fail(c, err)
	}
	return respond(c, http.StatusOK, "log cleanup finished", echo.Map{
		"retention_days": days,
		"removed":        removed,
	})
}
