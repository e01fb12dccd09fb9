// Package routes declares route groups once and uses them both to register
// handlers on a ServeMux and to describe the API as an OpenAPI document.
package routes

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/JaimeStill/steward/pkg/openapi"
)

// Group organizes routes under a common prefix with shared tags.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+prefix+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, prefix, child)
	}
}

// Describe adds every documented route in groups to spec, rooted at basePath.
// Group tags apply to operations that declare none, and group schemas are
// merged into the spec components.
func Describe(spec *openapi.Spec, basePath string, groups ...Group) {
	for _, group := range groups {
		describeGroup(spec, basePath, group)
	}
}

func describeGroup(spec *openapi.Spec, parentPrefix string, group Group) {
	prefix := parentPrefix + group.Prefix
	if group.Schemas != nil {
		spec.Components.AddSchemas(group.Schemas)
	}

	for _, route := range group.Routes {
		if route.OpenAPI == nil {
			continue
		}
		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = group.Tags
		}
		spec.AddOperation(openAPIPath(prefix+route.Pattern), route.Method, &op)
	}

	for _, child := range group.Children {
		describeGroup(spec, prefix, child)
	}
}

var wildcard = regexp.MustCompile(`\{([^}.]+)(\.\.\.)?\}`)

// openAPIPath converts ServeMux wildcards ({id}, {path...}) into OpenAPI
// path templates and removes the trailing-slash match marker ({$}).
func openAPIPath(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "{$}", "")
	if pattern == "" {
		pattern = "/"
	}
	return wildcard.ReplaceAllString(pattern, "{$1}")
}
