package errors

import "net/http"

// ErrAlreadyRestored is returned when restoring a task that is not in the
// trash. The reason detail distinguishes it from a missing task.
var ErrAlreadyRestored = &Exception{
	Message:    "task is not in trash",
	StatusCode: http.StatusConflict,
	Code:       "restore_not_applicable",
	Details:    map[string]string{"reason": "already_restored"},
}
