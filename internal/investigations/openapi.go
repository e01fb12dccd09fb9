package investigations

import "github.com/JaimeStill/steward/pkg/openapi"

type spec struct {
	Sources  *openapi.Operation
	Start    *openapi.Operation
	Snapshot *openapi.Operation
}

// Spec documents the investigation endpoints.
var Spec = spec{
	Sources: &openapi.Operation{
		Summary: "List external sources",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("request_type", "string", "Annotate recommendations for this request type", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Source catalog", "SourceCatalog"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Start: &openapi.Operation{
		Summary:     "Start investigation",
		Description: "Supersedes any investigation in flight for the request. Every source reports searching until the run resolves.",
		Parameters:  []*openapi.Parameter{openapi.PathParam("requestId", "Request ID")},
		Responses: map[int]*openapi.Response{
			202: openapi.ResponseJSON("Investigation started", "Investigation"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Snapshot: &openapi.Operation{
		Summary: "Get investigation",
		Parameters: []*openapi.Parameter{
			openapi.PathParam("requestId", "Request ID"),
			openapi.QueryParam("wait", "boolean", "Block until the run completes", false),
			openapi.QueryParam("generation", "integer", "Run to wait on; defaults to the latest", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Investigation snapshot", "Investigation"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	status := openapi.Enum("Source search status", "found", "not_found", "searching", "error")

	return map[string]*openapi.Schema{
		"Source": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":            {Type: "string"},
				"name":          {Type: "string"},
				"title":         {Type: "string"},
				"url":           {Type: "string", Description: "Empty when the source has no direct link"},
				"description":   {Type: "string"},
				"search_method": {Type: "string"},
				"recommended":   {Type: "boolean"},
			},
		},
		"SourceCatalog": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request_type": {Type: "string"},
				"focus":        {Type: "string"},
				"sources":      openapi.ArrayOf("Source"),
			},
		},
		"SearchResult": {
			Type:     "object",
			Required: []string{"source", "url", "status"},
			Properties: map[string]*openapi.Schema{
				"source": {Type: "string"},
				"url":    {Type: "string"},
				"status": status,
				"data": {
					Type:        "object",
					Description: "Present only when status is found. The kind field names the record type: registry, network, directory, license, or web_search.",
				},
				"notes": {Type: "string"},
			},
		},
		"InvestigationSummary": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"found":          {Type: "integer"},
				"not_found":      {Type: "integer"},
				"searching":      {Type: "integer"},
				"error":          {Type: "integer"},
				"recommendation": {Type: "string"},
			},
		},
		"Investigation": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request_id":   {Type: "string", Format: "uuid"},
				"npi":          {Type: "string"},
				"request_type": {Type: "string"},
				"generation":   {Type: "integer"},
				"state":        openapi.Enum("Run state", "searching", "complete", "failed"),
				"results": {
					Type:                 "object",
					AdditionalProperties: openapi.SchemaRef("SearchResult"),
				},
				"summary":      openapi.SchemaRef("InvestigationSummary"),
				"cached":       {Type: "boolean"},
				"started_at":   {Type: "string", Format: "date-time"},
				"completed_at": {Type: "string", Format: "date-time", Nullable: true},
			},
		},
	}
}
