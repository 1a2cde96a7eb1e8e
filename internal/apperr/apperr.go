// Package apperr holds the error sentinels the handlers map to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalid       = errors.New("invalid request")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("not found")
)

func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Status maps an error to the HTTP status the caller should see. Anything not
// in the taxonomy is an internal failure.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrQuotaExceeded):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
