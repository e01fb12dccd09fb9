package requests

import (
	"maps"

	"github.com/JaimeStill/steward/pkg/openapi"
)

type spec struct {
	List   *openapi.Operation
	Stats  *openapi.Operation
	Find   *openapi.Operation
	Create *openapi.Operation
}

// Spec documents the request endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary:     "List requests",
		Description: "Requests match when the NPI contains the search term or the description contains it case-insensitively, and the status filter is all or equal.",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("search", "string", "Search term", false),
			openapi.QueryParam("status", "string", "pending, approved, rejected, or all", false),
			openapi.QueryParam("request_type", "string", "Exact request type", false),
			openapi.QueryParam("priority", "string", "Exact priority", false),
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Page of requests", "RequestPage"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Stats: &openapi.Operation{
		Summary: "Request counts by status",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Counts", "RequestStats"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find request",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Request ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Request with timeline", "RequestDetail"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Create: &openapi.Operation{
		Summary:     "Ingest request",
		RequestBody: openapi.RequestBodyJSON("CreateRequest", true),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Created request", "Request"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	request := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":             {Type: "string", Format: "uuid"},
			"request_number": {Type: "integer"},
			"npi":            {Type: "string", Description: "10-digit NPI or NEW for providers without one"},
			"description":    {Type: "string"},
			"status":         openapi.Enum("Review status", "pending", "approved", "rejected"),
			"request_type":   openapi.Enum("Correction kind", "specialty_update", "license_verification", "address_update", "new_profile_creation"),
			"priority":       openapi.Enum("Review priority", "high", "medium", "low"),
			"submitted_date": {Type: "string", Format: "date-time"},
			"current_value":  {Type: "string"},
			"proposed_value": {Type: "string"},
			"final_value":    {Type: "string"},
			"notes":          {Type: "string"},
			"decided_by":     {Type: "string"},
			"decided_at":     {Type: "string", Format: "date-time"},
		},
	}

	detail := maps.Clone(request.Properties)
	detail["timeline"] = &openapi.Schema{
		Type: "array",
		Items: &openapi.Schema{
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"label": {Type: "string"},
				"at":    {Type: "string", Format: "date-time"},
				"done":  {Type: "boolean"},
			},
		},
	}

	return map[string]*openapi.Schema{
		"Request": request,
		"RequestDetail": {
			Type:       "object",
			Properties: detail,
		},
		"RequestPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Request"),
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"RequestStats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"pending":  {Type: "integer"},
				"approved": {Type: "integer"},
				"rejected": {Type: "integer"},
				"total":    {Type: "integer"},
			},
		},
		"CreateRequest": {
			Type:     "object",
			Required: []string{"npi", "description", "request_type", "priority"},
			Properties: map[string]*openapi.Schema{
				"npi":            {Type: "string"},
				"description":    {Type: "string"},
				"request_type":   request.Properties["request_type"],
				"priority":       request.Properties["priority"],
				"submitted_date": {Type: "string", Format: "date-time"},
				"current_value":  {Type: "string", Description: "Required together with proposed_value"},
				"proposed_value": {Type: "string", Description: "Required together with current_value"},
			},
		},
	}
}
