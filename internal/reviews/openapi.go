package reviews

import "github.com/JaimeStill/steward/pkg/openapi"

type spec struct {
	Open     *openapi.Operation
	Find     *openapi.Operation
	Close    *openapi.Operation
	Select   *openapi.Operation
	Back     *openapi.Operation
	SetTab   *openapi.Operation
	SetNotes *openapi.Operation
	Approve  *openapi.Operation
	Reject   *openapi.Operation
}

func sessionParam() []*openapi.Parameter {
	return []*openapi.Parameter{openapi.PathParam("id", "Session ID")}
}

func transition(summary, body string) *openapi.Operation {
	op := &openapi.Operation{
		Summary:    summary,
		Parameters: sessionParam(),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session state", "Session"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
	if body != "" {
		op.RequestBody = openapi.RequestBodyJSON(body, true)
	}
	return op
}

func decision(summary string) *openapi.Operation {
	return &openapi.Operation{
		Summary:     summary,
		Description: "Allowed only while viewing a pending request. The final value defaults to the session's final value.",
		Parameters:  sessionParam(),
		RequestBody: openapi.RequestBodyJSON("DecisionCommand", false),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Recorded decision", "Outcome"),
			404: openapi.ResponseRef("NotFound"),
			409: openapi.ResponseRef("Conflict"),
		},
	}
}

// Spec documents the session endpoints.
var Spec = spec{
	Open: &openapi.Operation{
		Summary:     "Open session",
		RequestBody: openapi.RequestBodyJSON("OpenSession", false),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("New session in the listing view", "Session"),
			400: openapi.ResponseRef("BadRequest"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get session",
		Parameters: sessionParam(),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Session state", "Session"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Close: &openapi.Operation{
		Summary:    "Close session",
		Parameters: sessionParam(),
		Responses: map[int]*openapi.Response{
			204: {Description: "Session closed"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Select:   transition("Open a request", "SelectRequest"),
	Back:     transition("Return to the request list", ""),
	SetTab:   transition("Switch tab", "SetTab"),
	SetNotes: transition("Record notes", "SetNotes"),
	Approve:  decision("Approve the open request"),
	Reject:   decision("Reject the open request"),
}

func (spec) Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"ViewState": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"kind":       openapi.Enum("View", ViewListing, ViewViewing, ViewClosed),
				"request_id": {Type: "string", Format: "uuid"},
				"tab":        openapi.Enum("Tab", string(TabProfile), string(TabInvestigation)),
				"status":     {Type: "string"},
			},
		},
		"Session": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":          {Type: "string", Format: "uuid"},
				"reviewer":    {Type: "string"},
				"view":        openapi.SchemaRef("ViewState"),
				"notes":       {Type: "string"},
				"final_value": {Type: "string"},
				"actions": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"approve": {Type: "boolean"},
						"reject":  {Type: "boolean"},
						"reason":  {Type: "string"},
					},
				},
			},
		},
		"Outcome": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"request": openapi.SchemaRef("Request"),
				"view":    openapi.SchemaRef("ViewState"),
				"warning": {Type: "string", Description: "Set when the decision was stored but notification failed"},
			},
		},
		"OpenSession": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"reviewer": {Type: "string"}},
		},
		"SelectRequest": {
			Type:       "object",
			Required:   []string{"request_id"},
			Properties: map[string]*openapi.Schema{"request_id": {Type: "string", Format: "uuid"}},
		},
		"SetTab": {
			Type:       "object",
			Required:   []string{"tab"},
			Properties: map[string]*openapi.Schema{"tab": openapi.Enum("Tab", string(TabProfile), string(TabInvestigation))},
		},
		"SetNotes": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"notes":       {Type: "string"},
				"final_value": {Type: "string"},
			},
		},
		"DecisionCommand": {
			Type:       "object",
			Properties: map[string]*openapi.Schema{"final_value": {Type: "string"}},
		},
	}
}
