package detection

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/moodlog/internal/moods"
)

// Domain errors for emotion detection.
var (
	ErrInvalidImage = errors.New("invalid image")
	ErrFileTooLarge = errors.New("image exceeds maximum upload size")
	ErrUnavailable  = errors.New("emotion classifier unavailable")
)

// MapHTTPStatus maps detection errors to HTTP status codes. Errors from
// recording the result defer to the mood domain mapping.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidImage):
		return http.StatusBadRequest
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return moods.MapHTTPStatus(err)
	}
}
