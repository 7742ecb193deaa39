package validators

import (
	"strings"
	"time"

	"task-vault.com/task-vault/internal/constants"
	dto "task-vault.com/task-vault/internal/data_models"
	apperrors "task-vault.com/task-vault/internal/errors"
)

// maxDueDateHorizon bounds how far in the future a due date may lie.
const maxDueDateHorizon = 10 * 365 * 24 * time.Hour

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = "title is required"
	}
	if r.Status != "" && !constants.TaskStatus(r.Status).Valid() {
		fields["status"] = "must be one of pending, in_progress, completed, cancelled"
	}
	if r.Priority != "" && !constants.TaskPriority(r.Priority).Valid() {
		fields["priority"] = "must be one of low, medium, high, urgent"
	}
	if r.AssignedTo != nil && *r.AssignedTo == 0 {
		fields["assigned_to"] = "must be a positive integer"
	}
	if r.CreatedBy != nil && *r.CreatedBy == 0 {
		fields["created_by"] = "must be a positive integer"
	}
	if r.DueDate != nil {
		if msg := validateDueDate(*r.DueDate); msg != "" {
			fields["due_date"] = msg
		}
	}

	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid task payload", fields)
	}
	return nil
}

func ValidateUpdateTaskRequest(r *dto.UpdateTaskRequest) error {
	fields := map[string]string{}

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = "title must not be empty"
	}
	if r.Status != nil && !constants.TaskStatus(*r.Status).Valid() {
		fields["status"] = "must be one of pending, in_progress, completed, cancelled"
	}
	if r.Priority != nil && !constants.TaskPriority(*r.Priority).Valid() {
		fields["priority"] = "must be one of low, medium, high, urgent"
	}
	if r.AssignedTo != nil && *r.AssignedTo == 0 {
		fields["assigned_to"] = "must be a positive integer"
	}
	if r.DueDate != nil {
		if msg := validateDueDate(*r.DueDate); msg != "" {
			fields["due_date"] = msg
		}
	}

	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid task payload", fields)
	}
	return nil
}

func validateDueDate(due time.Time) string {
	now := time.Now().UTC()
	if !due.After(now) {
		return "must be in the future"
	}
	if due.After(now.Add(maxDueDateHorizon)) {
		return "must be within 10 years"
	}
	return ""
}
