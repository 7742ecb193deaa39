package dto

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	AssignedTo  *uint      `json:"assigned_to"`
	CreatedBy   *uint      `json:"created_by"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateTaskRequest uses pointers so absent fields can be told apart from
// zero values; only present fields are applied.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	AssignedTo  *uint      `json:"assigned_to"`
	DueDate     *time.Time `json:"due_date"`
}

func (r *UpdateTaskRequest) Empty() bool {
	return r.Title == nil && r.Description == nil && r.Status == nil &&
		r.Priority == nil && r.AssignedTo == nil && r.DueDate == nil
}

type AssignTaskRequest struct {
	AssignedTo uint `json:"assigned_to"`
}

type BulkCreateRequest struct {
	Tasks []CreateTaskRequest `json:"tasks"`
}

type BulkUpdateItem struct {
	ID uint `json:"id"`
	UpdateTaskRequest
}

type BulkUpdateRequest struct {
	Tasks []BulkUpdateItem `json:"tasks"`
}

type BulkDeleteRequest struct {
	IDs []uint `json:"ids"`
}
