// Package reviews drives the reviewer workflow: browsing requests, viewing
// one, and recording a single terminal decision for it.
package reviews

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
)

// Tab selects the read view shown while a request is open.
type Tab string

const (
	TabProfile       Tab = "profile"
	TabInvestigation Tab = "investigation"
)

// Valid reports whether t is a known tab.
func (t Tab) Valid() bool {
	return t == TabProfile || t == TabInvestigation
}

// View is the current screen of a session: Listing, Viewing, or Closed.
type View interface {
	view()
}

// Listing shows the filterable request list.
type Listing struct{}

// Viewing shows one request on the given tab.
type Viewing struct {
	RequestID uuid.UUID
	Tab       Tab
}

// Closed shows the outcome of a decision just recorded.
type Closed struct {
	RequestID uuid.UUID
	Status    requests.Status
}

func (Listing) view() {}
func (Viewing) view() {}
func (Closed) view()  {}

const (
	ViewListing = "listing"
	ViewViewing = "viewing"
	ViewClosed  = "closed"
)

// ViewState is the wire form of a View.
type ViewState struct {
	Kind      string          `json:"kind"`
	RequestID *uuid.UUID      `json:"request_id,omitempty"`
	Tab       Tab             `json:"tab,omitempty"`
	Status    requests.Status `json:"status,omitempty"`
}

// StateOf renders v for serialization.
func StateOf(v View) ViewState {
	switch v := v.(type) {
	case Viewing:
		id := v.RequestID
		return ViewState{Kind: ViewViewing, RequestID: &id, Tab: v.Tab}
	case Closed:
		id := v.RequestID
		return ViewState{Kind: ViewClosed, RequestID: &id, Status: v.Status}
	}
	return ViewState{Kind: ViewListing}
}
