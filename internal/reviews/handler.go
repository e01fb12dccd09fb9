package reviews

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// HeaderReviewer names the reviewer when a session body omits it.
const HeaderReviewer = "X-Reviewer"

// Handler provides HTTP endpoints for review sessions.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reviews"),
	}
}

// Routes returns the route group definition for session endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/sessions",
		Tags:        []string{"Reviews"},
		Description: "Reviewer sessions and request decisions",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Open, OpenAPI: Spec.Open},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: Spec.Find},
			{Method: "DELETE", Pattern: "/{id}", Handler: h.Close, OpenAPI: Spec.Close},
			{Method: "POST", Pattern: "/{id}/select", Handler: h.Select, OpenAPI: Spec.Select},
			{Method: "POST", Pattern: "/{id}/back", Handler: h.Back, OpenAPI: Spec.Back},
			{Method: "POST", Pattern: "/{id}/tab", Handler: h.SetTab, OpenAPI: Spec.SetTab},
			{Method: "POST", Pattern: "/{id}/notes", Handler: h.SetNotes, OpenAPI: Spec.SetNotes},
			{Method: "POST", Pattern: "/{id}/approve", Handler: h.Approve, OpenAPI: Spec.Approve},
			{Method: "POST", Pattern: "/{id}/reject", Handler: h.Reject, OpenAPI: Spec.Reject},
		},
	}
}

// OpenCommand names the reviewer of a new session.
type OpenCommand struct {
	Reviewer string `json:"reviewer"`
}

// SelectCommand names the request to open.
type SelectCommand struct {
	RequestID uuid.UUID `json:"request_id"`
}

// TabCommand names the tab to show.
type TabCommand struct {
	Tab Tab `json:"tab"`
}

// NotesCommand carries reviewer notes and, optionally, the final value.
type NotesCommand struct {
	Notes      string  `json:"notes"`
	FinalValue *string `json:"final_value,omitempty"`
}

// DecisionCommand overrides the session's final value when set.
type DecisionCommand struct {
	FinalValue *string `json:"final_value,omitempty"`
}

// Open creates a session for the reviewer in the body or X-Reviewer header.
func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var cmd OpenCommand
	if err := handlers.DecodeJSON(r, &cmd, true); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if cmd.Reviewer == "" {
		cmd.Reviewer = r.Header.Get(HeaderReviewer)
	}

	s := h.sys.Open(cmd.Reviewer)
	handlers.RespondJSON(w, http.StatusCreated, s.Snapshot(r.Context()))
}

// Find returns the session state.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Snapshot(r.Context()))
}

// Close removes the session.
func (h *Handler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrSessionNotFound)
		return
	}
	if err := h.sys.Close(id); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Select opens a request in the session.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd SelectCommand
	if err := handlers.DecodeJSON(r, &cmd, false); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.respond(w, r, s, s.Select(r.Context(), cmd.RequestID))
}

// Back returns the session to the request list.
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, r, s, s.Back())
}

// SetTab switches the open request's tab.
func (h *Handler) SetTab(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd TabCommand
	if err := handlers.DecodeJSON(r, &cmd, false); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	h.respond(w, r, s, s.SetTab(cmd.Tab))
}

// SetNotes records reviewer notes and an optional final value.
func (h *Handler) SetNotes(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd NotesCommand
	if err := handlers.DecodeJSON(r, &cmd, false); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	err := s.SetNotes(cmd.Notes)
	if err == nil && cmd.FinalValue != nil {
		err = s.SetFinalValue(*cmd.FinalValue)
	}
	h.respond(w, r, s, err)
}

// Approve records an approved decision.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*Session).Approve)
}

// Reject records a rejected decision.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, (*Session).Reject)
}

type decideFunc func(*Session, context.Context, string) (*Outcome, error)

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, fn decideFunc) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var cmd DecisionCommand
	if err := handlers.DecodeJSON(r, &cmd, true); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	finalValue := s.FinalValue()
	if cmd.FinalValue != nil {
		finalValue = *cmd.FinalValue
	}

	out, err := fn(s, r.Context(), finalValue)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrSessionNotFound)
		return nil, false
	}

	s, err := h.sys.Session(id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return nil, false
	}
	return s, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, s *Session, err error) {
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, s.Snapshot(r.Context()))
}
