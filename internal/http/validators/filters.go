package validators

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
)

// ParsePagination reads page/limit query params, applying the defaults and
// the hard cap of the listing endpoints.
func ParsePagination(c echo.Context, defaultLimit, maxLimit int) (page, limit int, err error) {
	page, limit = 1, defaultLimit

	if raw := c.QueryParam("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, apperrors.ErrInvalidPagination
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			return 0, 0, apperrors.ErrInvalidPagination
		}
	}
	return page, limit, nil
}

func ParseTaskFilters(c echo.Context) (dto.TaskFilters, error) {
	f := dto.TaskFilters{}
	fields := map[string]string{}

	if status := c.QueryParam("status"); status != "" {
		if !constants.TaskStatus(status).Valid() {
			fields["status"] = "unrecognized status value"
		}
		f.Status = status
	}
	if raw := c.QueryParam("assigned_to"); raw != "" {
		if id, ok := parseUint(raw); ok {
			f.AssignedTo = &id
		} else {
			fields["assigned_to"] = "must be a positive integer"
		}
	}
	if raw := c.QueryParam("created_by"); raw != "" {
		if id, ok := parseUint(raw); ok {
			f.CreatedBy = &id
		} else {
			fields["created_by"] = "must be a positive integer"
		}
	}
	if raw := c.QueryParam("overdue"); raw != "" {
		overdue, err := strconv.ParseBool(raw)
		if err != nil {
			fields["overdue"] = "must be true or false"
		} else {
			f.Overdue = &overdue
		}
	}
	if raw := c.QueryParam("due_date_from"); raw != "" {
		if ts, ok := parseTime(raw); ok {
			f.DueDateFrom = &ts
		} else {
			fields["due_date_from"] = "must be an RFC3339 timestamp"
		}
	}
	if raw := c.QueryParam("due_date_to"); raw != "" {
		if ts, ok := parseTime(raw); ok {
			f.DueDateTo = &ts
		} else {
			fields["due_date_to"] = "must be an RFC3339 timestamp"
		}
	}
	f.Search = c.QueryParam("search")
	f.SortBy = c.QueryParam("sort_by")
	if order := c.QueryParam("sort_order"); order != "" {
		if order != "asc" && order != "desc" {
			fields["sort_order"] = "must be asc or desc"
		}
		f.SortOrder = order
	}

	if len(fields) > 0 {
		return f, &apperrors.Exception{
			Message:    "invalid filter parameters",
			StatusCode: http.StatusBadRequest,
			Code:       "invalid_filters",
			Details:    fields,
		}
	}
	return f, nil
}

func ParseLogFilters(c echo.Context) (dto.LogFilters, error) {
	f := dto.LogFilters{}
	fields := map[string]string{}

	f.Action = c.QueryParam("action")
	if raw := c.QueryParam("task_id"); raw != "" {
		if id, ok := parseUint(raw); ok {
			f.TaskID = &id
		} else {
			fields["task_id"] = "must be a positive integer"
		}
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		if id, ok := parseUint(raw); ok {
			f.UserID = &id
		} else {
			fields["user_id"] = "must be a positive integer"
		}
	}
	if raw := c.QueryParam("date_from"); raw != "" {
		if ts, ok := parseTime(raw); ok {
			f.From = &ts
		} else {
			fields["date_from"] = "must be an RFC3339 timestamp"
		}
	}
	if raw := c.QueryParam("date_to"); raw != "" {
		if ts, ok := parseTime(raw); ok {
			f.To = &ts
		} else {
			fields["date_to"] = "must be an RFC3339 timestamp"
		}
	}
	f.SortOrder = c.QueryParam("sort_order")

	if len(fields) > 0 {
		return f, &apperrors.Exception{
			Message:    "invalid filter parameters",
			StatusCode: http.StatusBadRequest,
			Code:       "invalid_filters",
			Details:    fields,
		}
	}
	return f, nil
}

func parseUint(raw string) (uint, bool) {
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}

func parseTime(raw string) (time.Time, bool) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
