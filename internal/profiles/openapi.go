package profiles

import "github.com/JaimeStill/steward/pkg/openapi"

type spec struct {
	Resolve *openapi.Operation
}

// Spec documents the profile endpoints.
var Spec = spec{
	Resolve: &openapi.Operation{
		Summary:     "Resolve NPI profile",
		Description: "A missing profile is not an error: the response reports found as false.",
		Parameters:  []*openapi.Parameter{openapi.StringPathParam("npi", "National Provider Identifier")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Profile view", "ProfileView"),
		},
	},
}

func (spec) Schemas() map[string]*openapi.Schema {
	field := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"label": {Type: "string"},
			"value": {Type: "string"},
		},
	}

	return map[string]*openapi.Schema{
		"Profile": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"npi":            {Type: "string"},
				"formatted_name": {Type: "string"},
				"addr_line1":     {Type: "string"},
				"addr_line2":     {Type: "string"},
				"addr_line3":     {Type: "string"},
				"city":           {Type: "string"},
				"state":          {Type: "string"},
				"zip_code":       {Type: "string"},
				"country":        {Type: "string"},
				"specialty":      {Type: "string"},
				"profile_status": {Type: "string"},
				"license": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"state":           {Type: "string"},
						"type":            {Type: "string"},
						"number":          {Type: "string"},
						"status":          {Type: "string"},
						"start_date":      {Type: "string"},
						"expiration_date": {Type: "string"},
					},
				},
			},
		},
		"ProfileView": {
			Type:     "object",
			Required: []string{"npi", "found"},
			Properties: map[string]*openapi.Schema{
				"npi":     {Type: "string"},
				"found":   {Type: "boolean"},
				"profile": openapi.SchemaRef("Profile"),
				"sections": {
					Type: "array",
					Items: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"title":  {Type: "string"},
							"fields": {Type: "array", Items: field},
						},
					},
				},
			},
		},
	}
}
