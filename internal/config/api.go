package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/JaimeStill/steward/pkg/middleware"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "STEWARD_CORS_ENABLED",
	Origins:          "STEWARD_CORS_ORIGINS",
	AllowedMethods:   "STEWARD_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "STEWARD_CORS_ALLOWED_HEADERS",
	AllowCredentials: "STEWARD_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "STEWARD_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "STEWARD_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "STEWARD_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "STEWARD_OPENAPI_TITLE",
	Description: "STEWARD_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	Seed       *bool                 `toml:"seed"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
	OpenAPI    openapi.Config        `toml:"openapi"`
}

// SeedEnabled reports whether the request store is populated with fixtures at startup.
func (c *APIConfig) SeedEnabled() bool {
	return c.Seed == nil || *c.Seed
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if !strings.HasPrefix(c.BasePath, "/") || strings.Count(c.BasePath, "/") != 1 {
		return fmt.Errorf("base_path must be a single-level path: %s", c.BasePath)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.Seed != nil {
		c.Seed = overlay.Seed
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("STEWARD_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v, ok := envBool("STEWARD_API_SEED"); ok {
		c.Seed = &v
	}
}
