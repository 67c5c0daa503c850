package moods

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors for mood record operations.
var (
	ErrNotFound         = errors.New("mood entry not found")
	ErrDuplicate        = errors.New("mood entry already exists")
	ErrInvalidRequest   = errors.New("invalid mood entry request")
	ErrInvalidID        = errors.New("invalid mood entry id")
	ErrInvalidRange     = errors.New("invalid date range")
	ErrInvalidFormat    = errors.New("invalid export format")
	ErrStoreUnavailable = errors.New("mood store unavailable")
	ErrArchiveDisabled  = errors.New("export archive storage is not configured")
)

// MapHTTPStatus maps mood domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrStoreUnavailable),
		errors.Is(err, ErrArchiveDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
