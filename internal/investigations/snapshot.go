package investigations

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
)

// State is the lifecycle of one investigation run.
type State string

const (
	StateSearching State = "searching"
	StateComplete  State = "complete"
	StateFailed    State = "failed"
)

// Snapshot is the latest investigation of a request. Results are replaced
// as a whole when a run completes.
type Snapshot struct {
	RequestID   uuid.UUID            `json:"request_id"`
	NPI         string               `json:"npi"`
	RequestType requests.RequestType `json:"request_type"`
	Generation  uint64               `json:"generation"`
	State       State                `json:"state"`
	Results     map[SourceID]Result  `json:"results"`
	Summary     Summary              `json:"summary"`
	Cached      bool                 `json:"cached"`
	StartedAt   time.Time            `json:"started_at"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	s.Results = maps.Clone(s.Results)
	if s.CompletedAt != nil {
		at := *s.CompletedAt
		s.CompletedAt = &at
	}
	return s
}

// Ordered returns the results in display order.
func (s Snapshot) Ordered() []Result {
	out := make([]Result, 0, len(SourceOrder))
	for _, id := range SourceOrder {
		if r, ok := s.Results[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Summary counts results by status and carries a recommendation line.
type Summary struct {
	Found          int    `json:"found"`
	NotFound       int    `json:"not_found"`
	Searching      int    `json:"searching"`
	Error          int    `json:"error"`
	Recommendation string `json:"recommendation"`
}

const (
	recommendConsistent = "Based on search results, the information appears to be consistent across multiple sources and can be verified."
	recommendLimited    = "Based on search results, the information available is limited. Additional investigation may be required."
)

// Summarize counts results by status. Two or more found sources are
// considered corroborating.
func Summarize(results map[SourceID]Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Status {
		case StatusFound:
			s.Found++
		case StatusNotFound:
			s.NotFound++
		case StatusSearching:
			s.Searching++
		case StatusError:
			s.Error++
		}
	}

	s.Recommendation = recommendLimited
	if s.Found >= 2 {
		s.Recommendation = recommendConsistent
	}
	return s
}

func searching() map[SourceID]Result {
	out := make(map[SourceID]Result, len(SourceOrder))
	for _, id := range SourceOrder {
		out[id] = newResult(id, StatusSearching, nil, "")
	}
	return out
}

func failed(notes string) map[SourceID]Result {
	out := make(map[SourceID]Result, len(SourceOrder))
	for _, id := range SourceOrder {
		out[id] = newResult(id, StatusError, nil, notes)
	}
	return out
}
