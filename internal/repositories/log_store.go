package repository

import (
	"context"
	"time"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	model "task-vault.com/task-vault/internal/models"
)

// LogStore is the document-store contract for audit records. Writes are
// append-only; entries are removed only via DeleteOlderThan.
type LogStore interface {
	Create(ctx context.Context, entry *model.TaskLog) error

	FindByID(ctx context.Context, id string) (*model.TaskLog, error)

	FindByTask(ctx context.Context, taskID uint, limit int) ([]model.TaskLog, error)

	FindRecent(ctx context.Context, limit int) ([]model.TaskLog, error)

	FindWithFilters(ctx context.Context, f dto.LogFilters, limit, offset int) ([]model.TaskLog, error)

	CountWithFilters(ctx context.Context, f dto.LogFilters) (int, error)

	CountByAction(ctx context.Context) (map[constants.LogAction]int, error)

	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	Ping(ctx context.Context) error
}
