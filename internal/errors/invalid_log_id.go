package errors

import "net/http"

var ErrInvalidLogID = &Exception{
	Message:    "invalid log id, expected format: 24-character hexadecimal string",
	StatusCode: http.StatusUnprocessableEntity,
	Code:       "invalid_log_id",
}
