package errors

import "net/http"

var ErrLogNotFound = &Exception{
	Message:    "log entry not found",
	StatusCode: http.StatusNotFound,
	Code:       "log_not_found",
}
