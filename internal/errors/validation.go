package errors

import "net/http"

// NewValidationError builds a 422 exception with a field -> problem map.
func NewValidationError(message string, fields map[string]string) *Exception {
	return &Exception{
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "validation_error",
		Details:    fields,
	}
}
