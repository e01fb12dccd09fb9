package profiles

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/steward/pkg/handlers"
	"github.com/JaimeStill/steward/pkg/routes"
)

// Handler provides HTTP endpoints for profile lookup.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "profiles"),
	}
}

// Routes returns the route group definition for profile endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix:      "/profiles",
		Tags:        []string{"Profiles"},
		Description: "Reference NPI profile lookup",
		Schemas:     Spec.Schemas(),
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{npi}", Handler: h.Resolve, OpenAPI: Spec.Resolve},
		},
	}
}

// Resolve returns the profile view for an NPI. A missing profile is a 200
// response with found set to false.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.Resolve(r.Context(), r.PathValue("npi"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, view)
}
