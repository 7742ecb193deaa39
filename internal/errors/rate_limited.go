package errors

import "net/http"

var ErrRateLimited = &Exception{
	Message:    "rate limit exceeded, retry later",
	StatusCode: http.StatusTooManyRequests,
	Code:       "rate_limited",
}
