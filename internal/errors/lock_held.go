package errors

import "net/http"

var ErrLockHeld = &Exception{
	Message:    "another operation on this task is in progress",
	StatusCode: http.StatusConflict,
	Code:       "lock_held",
}
