package model

import (
	"time"

	"gorm.io/gorm"

	"task-vault.com/task-vault/internal/constants"
)

type Task struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	Title       string                 `gorm:"size:255;not null" json:"title"`
	Description string                 `gorm:"size:2000" json:"description,omitempty"`
	Status      constants.TaskStatus   `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Priority    constants.TaskPriority `gorm:"type:varchar(10);not null;default:medium" json:"priority"`
	AssignedTo  *uint                  `json:"assigned_to,omitempty"`
	CreatedBy   *uint                  `json:"created_by,omitempty"`
	DueDate     *time.Time             `json:"due_date,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	DeletedAt   gorm.DeletedAt         `gorm:"index" json:"deleted_at,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) Overdue() bool {
	if t.DueDate == nil {
		return false
	}
	if t.Status == constants.StatusCompleted || t.Status == constants.StatusCancelled {
		return false
	}
	return t.DueDate.Before(time.Now().UTC())
}

// Snapshot captures the tracked fields of a task for audit diffing.
func (t *Task) Snapshot() map[string]interface{} {
	return map[string]interface{}{
		"title":        t.Title,
		"description":  t.Description,
		"status":       string(t.Status),
		"priority":     string(t.Priority),
		"assigned_to":  t.AssignedTo,
		"due_date":     t.DueDate,
		"completed_at": t.CompletedAt,
	}
}

// TrackedFields is the field set compared when computing changed_fields.
var TrackedFields = []string{
	"title", "description", "status", "priority",
	"assigned_to", "due_date", "completed_at",
}
