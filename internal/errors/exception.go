package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
	Code       string
	Details    map[string]string
}

func (e *Exception) Error() string {
	return e.Message
}

// WithDetails returns a copy of the exception carrying extra detail pairs,
// leaving the sentinel value untouched.
func (e *Exception) WithDetails(details map[string]string) *Exception {
	copied := *e
	copied.Details = make(map[string]string, len(e.Details)+len(details))
	for k, v := range e.Details {
		copied.Details[k] = v
	}
	for k, v := range details {
		copied.Details[k] = v
	}
	return &copied
}

// Is matches exceptions by code so detail-carrying copies still compare
// equal to their sentinel.
func (e *Exception) Is(target error) bool {
	var other *Exception
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

func Code(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "internal_error"
}

func Details(err error) map[string]string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}
