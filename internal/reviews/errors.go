package reviews

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/internal/requests"
)

// Domain errors for review workflow operations.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidTransition = errors.New("invalid transition for current view")
	ErrInvalidTab        = errors.New("tab must be profile or investigation")
)

// MapHTTPStatus maps review errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidTab):
		return http.StatusBadRequest
	}
	return requests.MapHTTPStatus(err)
}
