package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "task-vault.com/task-vault/internal/http/middlewares"
)

func Register(
	e *echo.Echo,
	tasks *TaskHandler,
	logs *LogHandler,
	health *HealthHandler,
	rateLimitPerMinute int,
	requestTimeout time.Duration,
) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))
	e.Use(middleware.Timeout(requestTimeout))

	v1 := e.Group("/api/v1")

	v1.GET("/tasks", tasks.List)
	v1.POST("/tasks", tasks.Create)
	v1.GET("/tasks/trashed", tasks.Trashed)
	v1.GET("/tasks/stats", tasks.Stats)
	v1.POST("/tasks/bulk", tasks.BulkCreate)
	v1.PUT("/tasks/bulk", tasks.BulkUpdate)
	v1.DELETE("/tasks/bulk", tasks.BulkDelete)
	v1.GET("/tasks/:id", tasks.Get)
	v1.PUT("/tasks/:id", tasks.Update)
	v1.PATCH("/tasks/:id", tasks.Update)
	v1.DELETE("/tasks/:id", tasks.Delete)
	v1.POST("/tasks/:id/restore", tasks.Restore)
	v1.DELETE("/tasks/:id/force", tasks.ForceDelete)
	v1.POST("/tasks/:id/complete", tasks.Complete)
	v1.POST("/tasks/:id/start", tasks.Start)
	v1.POST("/tasks/:id/cancel", tasks.Cancel)
	v1.POST("/tasks/:id/assign", tasks.Assign)
	v1.DELETE("/tasks/:id/assign", tasks.Unassign)

	v1.GET("/logs", logs.List)
	v1.GET("/logs/stats", logs.Stats)
	v1.GET("/logs/recent", logs.Recent)
	v1.GET("/logs/date-range", logs.DateRange)
	v1.GET("/logs/export", logs.Export)
	v1.DELETE("/logs/cleanup", logs.Cleanup)
	v1.GET("/logs/tasks/:task_id", logs.TaskLogs)
	v1.GET("/logs/actions/:action", logs.ByAction)
	v1.GET("/logs/users/:user_id", logs.ByUser)
	v1.GET("/logs/:id", logs.Get)

	e.GET("/health", health.Check)
	e.GET("/health/connections/:name", health.Connection)
	e.GET("/health/config", health.Config)
}
