package dto

import "time"

type TaskFilters struct {
	Status      string
	AssignedTo  *uint
	CreatedBy   *uint
	Overdue     *bool
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	Search      string
	SortBy      string
	SortOrder   string
	Limit       int
	Offset      int
}

type LogFilters struct {
	Action    string
	TaskID    *uint
	UserID    *uint
	From      *time.Time
	To        *time.Time
	SortOrder string
}

// Echo returns the filters in the shape reported back to API consumers
// alongside filtered listings.
func (f LogFilters) Echo() map[string]interface{} {
	applied := map[string]interface{}{}
	if f.Action != "" {
		applied["action"] = f.Action
	}
	if f.TaskID != nil {
		applied["task_id"] = *f.TaskID
	}
	if f.UserID != nil {
		applied["user_id"] = *f.UserID
	}
	if f.From != nil {
		applied["date_from"] = f.From.Format(time.RFC3339)
	}
	if f.To != nil {
		applied["date_to"] = f.To.Format(time.RFC3339)
	}
	if f.SortOrder != "" {
		applied["sort_order"] = f.SortOrder
	}
	return applied
}
