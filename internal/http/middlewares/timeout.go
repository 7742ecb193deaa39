package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "task-vault.com/task-vault/internal/errors"
)

// Timeout bounds each request's wall-clock time. Handlers observe the
// deadline through the request context; an overrun surfaces as a timeout
// error instead of a generic 500.
func Timeout(limit time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), limit)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil && errors.Is(err, context.DeadlineExceeded) {
				return apperrors.ErrRequestTimeout
			}
			return err
		}
	}
}
