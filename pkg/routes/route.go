package routes

import (
	"net/http"

	"github.com/JaimeStill/steward/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler, with optional
// OpenAPI metadata describing the operation.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
