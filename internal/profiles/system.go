package profiles

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"strings"
)

// ErrNotFound indicates no reference profile exists for the NPI.
var ErrNotFound = errors.New("profile not found")

// MapHTTPStatus maps profile domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// System defines the public contract for profile lookup.
type System interface {
	Handler() *Handler
	Lookup(ctx context.Context, npi string) (*Profile, error)
	Resolve(ctx context.Context, npi string) (View, error)
}

type lookup struct {
	table  map[string]Profile
	logger *slog.Logger
}

// New creates a System over the built-in reference table.
func New(logger *slog.Logger) System {
	return NewFromTable(reference, logger)
}

// NewFromTable creates a System over the given table. The table is copied.
func NewFromTable(table map[string]Profile, logger *slog.Logger) System {
	return &lookup{
		table:  maps.Clone(table),
		logger: logger.With("system", "profiles"),
	}
}

func (l *lookup) Handler() *Handler {
	return NewHandler(l, l.logger)
}

// Lookup returns the profile for npi or ErrNotFound, including for the
// no-provider sentinel.
func (l *lookup) Lookup(ctx context.Context, npi string) (*Profile, error) {
	p, ok := l.table[strings.TrimSpace(npi)]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Resolve converts a lookup miss into a View with Found false.
func (l *lookup) Resolve(ctx context.Context, npi string) (View, error) {
	p, err := l.Lookup(ctx, npi)
	if errors.Is(err, ErrNotFound) {
		return View{NPI: npi}, nil
	}
	if err != nil {
		return View{}, err
	}
	return View{NPI: npi, Found: true, Profile: p, Sections: p.Sections()}, nil
}
