package model

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"time"

	"task-vault.com/task-vault/internal/constants"
)

// TaskLog is an append-only audit record of a task mutation. Entries are
// never updated; they are removed only by retention cleanup.
type TaskLog struct {
	ID          string                 `json:"id"`
	TaskID      uint                   `json:"task_id"`
	Action      constants.LogAction    `json:"action"`
	OldData     map[string]interface{} `json:"old_data,omitempty"`
	NewData     map[string]interface{} `json:"new_data,omitempty"`
	UserID      uint                   `json:"user_id"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"created_at"`
}

var logIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// NewLogID returns a 24-character lowercase hexadecimal identifier.
func NewLogID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

func ValidLogID(id string) bool {
	return logIDPattern.MatchString(id)
}
