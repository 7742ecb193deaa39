package errors

import "net/http"

var ErrRequestTimeout = &Exception{
	Message:    "request exceeded the allowed processing time",
	StatusCode: http.StatusServiceUnavailable,
	Code:       "request_timeout",
}
