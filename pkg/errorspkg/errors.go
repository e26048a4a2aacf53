// Package errorspkg provides common app errors.
package errorspkg

import "errors"

var (
	// ErrInternal indicates internal server error.
	ErrInternal = errors.New("internal")
	// ErrTooManyRequests indicates that the client exceeded the request rate.
	ErrTooManyRequests = errors.New("too many requests, try again later")
)
