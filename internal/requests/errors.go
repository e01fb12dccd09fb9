package requests

import (
	"errors"
	"net/http"
)

// Domain errors for request operations.
var (
	ErrNotFound         = errors.New("request not found")
	ErrNotPending       = errors.New("request is not pending")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrIncompleteChange = errors.New("current_value and proposed_value must be provided together")
	ErrInvalidFilter    = errors.New("invalid status filter")
	ErrInvalidDecision  = errors.New("decision status must be approved or rejected")
)

// MapHTTPStatus maps request domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrIncompleteChange),
		errors.Is(err, ErrInvalidFilter),
		errors.Is(err, ErrInvalidDecision):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
