package validations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/internal/requests"
)

// Domain errors for validation operations.
var (
	ErrUnknownCheck = errors.New("unknown validation check")
	ErrNotRunnable  = errors.New("validation check is not pending")
)

// MapHTTPStatus maps validation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnknownCheck):
		return http.StatusNotFound
	case errors.Is(err, ErrNotRunnable):
		return http.StatusConflict
	}
	return requests.MapHTTPStatus(err)
}
