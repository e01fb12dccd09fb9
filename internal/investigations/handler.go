package investigations

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for investigations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "investigations"),
	}
}

// Routes returns the route group definition for investigation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/investigations",
		Tags:        []string{"Investigations"},
		Description: "Simulated external source searches",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/sources", Handler: h.Sources, OpenAPI: Spec.Sources},
			{Method: "POST", Pattern: "/{requestId}", Handler: h.Start, OpenAPI: Spec.Start},
			{Method: "GET", Pattern: "/{requestId}", Handler: h.Snapshot, OpenAPI: Spec.Snapshot},
		},
	}
}

// SourcesView is the source catalog for a request type.
type SourcesView struct {
	RequestType requests.RequestType `json:"request_type,omitempty"`
	Focus       string               `json:"focus"`
	Sources     []SourceView         `json:"sources"`
}

// Sources lists the source catalog annotated for the request_type query parameter.
func (h *Handler) Sources(w http.ResponseWriter, r *http.Request) {
	rt := requests.RequestType(r.URL.Query().Get("request_type"))
	if rt != "" && !rt.Valid() {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrInvalidRequest)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, SourcesView{
		RequestType: rt,
		Focus:       rt.Focus(),
		Sources:     h.sys.Sources(rt),
	})
}

// Start begins a new investigation and returns the searching snapshot.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("requestId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrNotFound)
		return
	}

	snap, err := h.sys.Start(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, snap)
}

// Snapshot returns the latest investigation. With wait=true it blocks until
// the run named by generation, or the latest run, completes.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("requestId"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrNotFound)
		return
	}

	query := r.URL.Query()
	if wait, _ := strconv.ParseBool(query.Get("wait")); !wait {
		snap, err := h.sys.Snapshot(r.Context(), id)
		if err != nil {
			handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
			return
		}
		handlers.RespondJSON(w, http.StatusOK, snap)
		return
	}

	var generation uint64
	if g := query.Get("generation"); g != "" {
		generation, err = strconv.ParseUint(g, 10, 64)
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, requests.ErrInvalidRequest)
			return
		}
	}

	snap, err := h.sys.Await(r.Context(), id, generation)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, snap)
}
