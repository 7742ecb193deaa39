package errors

import "net/http"

var ErrInvalidPagination = &Exception{
	Message:    "page must be >= 1 and limit between 1 and 1000",
	StatusCode: http.StatusBadRequest,
	Code:       "invalid_pagination",
}
