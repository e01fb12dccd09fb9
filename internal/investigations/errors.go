package investigations

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/steward/internal/requests"
)

// Domain errors for investigation operations.
var (
	ErrEmptyNPI   = errors.New("npi is required to run an investigation")
	ErrNotFound   = errors.New("investigation not found")
	ErrSuperseded = errors.New("investigation superseded by a newer run")
)

// MapHTTPStatus maps investigation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyNPI):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	}
	return requests.MapHTTPStatus(err)
}
