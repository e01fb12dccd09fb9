package validations

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/openapi"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for validation checks.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "validations"),
	}
}

// Routes returns the route group for validation endpoints, nested under requests.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:  "/requests",
		Tags:    []string{"Validations"},
		Schemas: Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/checks", Handler: h.Report, OpenAPI: Spec.Report},
			{Method: "POST", Pattern: "/{id}/checks/{check}/run", Handler: h.Run, OpenAPI: Spec.Run},
		},
	}
}

// Report returns the checklist for a request.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrNotFound)
		return
	}

	report, err := h.sys.Report(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}

// Run completes a pending check and returns the updated checklist.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrNotFound)
		return
	}

	report, err := h.sys.Run(r.Context(), id, CheckID(r.PathValue("check")))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, report)
}

type spec struct {
	Report *openapi.Operation
	Run    *openapi.Operation
}

// Spec documents the validation endpoints.
var Spec = spec{
	Report: &openapi.Operation{
		Summary:    "Validation checklist",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Request ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Checklist", "ValidationReport"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Run: &openapi.Operation{
		Summary: "Run a pending check",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("id", "Request ID"),
			openapi.StringPathParam("check", "Check ID"),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Updated checklist", "ValidationReport"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ValidationCheck": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          openapi.Enum("Check", "profile_status", "input_validation", "data_completeness", "license_status"),
				"title":       {Type: "string"},
				"description": {Type: "string"},
				"status":      openapi.Enum("Outcome", "passed", "failed", "warning", "pending"),
				"details":     {Type: "string"},
			},
		},
		"ValidationReport": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request_id": {Type: "string", Format: "uuid"},
				"checks":     openapi.ArrayOf("ValidationCheck"),
				"summary": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"passed":  {Type: "integer"},
						"failed":  {Type: "integer"},
						"warning": {Type: "integer"},
						"pending": {Type: "integer"},
					},
				},
				"guidelines": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"title": {Type: "string"},
							"items": {Type: "array", Items: &openapi.Schema{Type: "string"}},
						},
					},
				},
			},
		},
	}
}
