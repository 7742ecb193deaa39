package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-vault.com/task-vault/internal/data_models"
	"task-vault.com/task-vault/internal/services"
)

type HealthHandler struct {
	health *services.HealthService
}

func NewHealthHandler(health *services.HealthService) *HealthHandler {
	return &HealthHandler{health: health}
}

func (h *HealthHandler) Check(c echo.Context) error {
	report := h.health.Check(c.Request().Context())

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, dto.Response{
		Success: report.Status == "healthy",
		Message: "health check",
		Data:    report,
	})
}

func (h *HealthHandler) Connection(c echo.Context) error {
	conn, ok := h.health.CheckConnection(c.Request().Context(), c.Param("name"))
	if !ok {
		return fail(c, echo.NewHTTPError(http.StatusNotFound, "unknown connection name"))
	}

	status := http.StatusOK
	if !conn.Healthy {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, dto.Response{
		Success: conn.Healthy,
		Message: "connection status",
		Data:    conn,
	})
}

func (h *HealthHandler) Config(c echo.Context) error {
	return respond(c, http.StatusOK, "runtime configuration", h.health.ConfigReport())
}
