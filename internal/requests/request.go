// Package requests implements the stewardship request store. Requests are
// created pending, decided exactly once through a compare-and-swap on the
// pending status, and otherwise immutable.
package requests

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoProvider is the NPI placeholder carried by new_profile_creation requests
// for providers that have not been issued an identifier yet.
const NoProvider = "NEW"

// FilterAll matches requests of every status.
const FilterAll = "all"

// Status is the review state of a request.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Terminal reports whether s is a decided status.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusPending || s.Terminal()
}

// RequestType names the kind of correction a request asks for.
type RequestType string

const (
	TypeSpecialtyUpdate     RequestType = "specialty_update"
	TypeLicenseVerification RequestType = "license_verification"
	TypeAddressUpdate       RequestType = "address_update"
	TypeNewProfileCreation  RequestType = "new_profile_creation"
)

// RequestTypes lists every request type.
var RequestTypes = []RequestType{
	TypeSpecialtyUpdate,
	TypeLicenseVerification,
	TypeAddressUpdate,
	TypeNewProfileCreation,
}

// Valid reports whether t is a known request type.
func (t RequestType) Valid() bool {
	switch t {
	case TypeSpecialtyUpdate, TypeLicenseVerification, TypeAddressUpdate, TypeNewProfileCreation:
		return true
	}
	return false
}

// Label renders t for display, e.g. "specialty update".
func (t RequestType) Label() string {
	return strings.ReplaceAll(string(t), "_", " ")
}

// Focus describes what an external search should concentrate on for t.
func (t RequestType) Focus() string {
	switch t {
	case TypeSpecialtyUpdate:
		return "Verify specialty credentials and qualifications"
	case TypeLicenseVerification:
		return "Check license status and expiration dates"
	case TypeAddressUpdate:
		return "Validate current practice addresses"
	case TypeNewProfileCreation:
		return "Confirm provider identity before creating a profile"
	}
	return "Verify provider information"
}

// Priority orders requests for review.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Request is a submitted correction or verification task against a provider record.
// CurrentValue and ProposedValue are both set or both empty.
type Request struct {
	ID            uuid.UUID   `json:"id"`
	RequestNumber int         `json:"request_number"`
	NPI           string      `json:"npi"`
	Description   string      `json:"description"`
	Status        Status      `json:"status"`
	RequestType   RequestType `json:"request_type"`
	Priority      Priority    `json:"priority"`
	SubmittedDate time.Time   `json:"submitted_date"`
	CurrentValue  string      `json:"current_value,omitempty"`
	ProposedValue string      `json:"proposed_value,omitempty"`
	FinalValue    string      `json:"final_value,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	DecidedBy     *string     `json:"decided_by,omitempty"`
	DecidedAt     *time.Time  `json:"decided_at,omitempty"`
}

// Pending reports whether the request still awaits a decision.
func (r Request) Pending() bool {
	return r.Status == StatusPending
}

// HasChange reports whether the request carries a current/proposed value pair.
func (r Request) HasChange() bool {
	return r.CurrentValue != "" && r.ProposedValue != ""
}

// Matches reports whether term is a substring of the NPI or a
// case-insensitive substring of the description.
func (r Request) Matches(term string) bool {
	return strings.Contains(r.NPI, term) ||
		strings.Contains(strings.ToLower(r.Description), strings.ToLower(term))
}

// TimelineEntry is one step in a request's review history.
type TimelineEntry struct {
	Label string     `json:"label"`
	At    *time.Time `json:"at,omitempty"`
	Done  bool       `json:"done"`
}

// Timeline returns the submitted, review, and decision steps for r.
func (r Request) Timeline() []TimelineEntry {
	submitted := r.SubmittedDate
	entries := []TimelineEntry{
		{Label: "Request submitted", At: &submitted, Done: true},
	}

	if r.Pending() {
		return append(entries, TimelineEntry{Label: "Under review"})
	}

	label := "Request approved"
	if r.Status == StatusRejected {
		label = "Request rejected"
	}
	entries = append(entries, TimelineEntry{Label: "Reviewed", Done: true})
	return append(entries, TimelineEntry{Label: label, At: r.DecidedAt, Done: true})
}

// CreateCommand carries the data needed to ingest a new request.
type CreateCommand struct {
	NPI           string      `json:"npi" validate:"required"`
	Description   string      `json:"description" validate:"required,max=2000"`
	RequestType   RequestType `json:"request_type" validate:"required,oneof=specialty_update license_verification address_update new_profile_creation"`
	Priority      Priority    `json:"priority" validate:"required,oneof=high medium low"`
	SubmittedDate *time.Time  `json:"submitted_date,omitempty"`
	CurrentValue  string      `json:"current_value,omitempty" validate:"max=500"`
	ProposedValue string      `json:"proposed_value,omitempty" validate:"max=500"`
}

// DecideCommand carries a terminal decision for a pending request.
type DecideCommand struct {
	Status     Status `json:"status"`
	FinalValue string `json:"final_value"`
	Notes      string `json:"notes"`
	DecidedBy  string `json:"decided_by"`
}

// Stats counts requests by status.
type Stats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Total    int `json:"total"`
}
