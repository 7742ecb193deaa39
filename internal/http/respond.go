package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func respondPage(c echo.Context, message string, data interface{}, pagination dto.Pagination) error {
	return c.JSON(http.StatusOK, dto.Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &dto.Meta{Pagination: pagination},
	})
}

func fail(c echo.Context, err error) error {
	var appErr *apperrors.Exception
	if errors.As(err, &appErr) {
		return c.JSON(appErr.StatusCode, dto.Response{
			Success: false,
			Message: appErr.Message,
			Error:   appErr.Message,
			Code:    appErr.Code,
			Details: appErr.Details,
		})
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fail(c, apperrors.ErrRequestTimeout)
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := fmt.Sprintf("%v", httpErr.Message)
		return c.JSON(httpErr.Code, dto.Response{
			Success: false,
			Message: message,
			Error:   message,
			Code:    codeForStatus(httpErr.Code),
		})
	}

	return c.JSON(http.StatusInternalServerError, dto.Response{
		Success: false,
		Message: "an unexpected error occurred",
		Error:   "an unexpected error occurred",
		Code:    "internal_error",
	})
}

// ErrorHandler shapes errors escaping handlers and middlewares into the
// uniform envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = fail(c, err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_error"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	return "internal_error"
}
