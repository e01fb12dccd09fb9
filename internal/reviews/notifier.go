package reviews

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/events"
)

// EventDecided is the event type published for each recorded decision.
const EventDecided = "stewardship.request.decided"

// Decision is the update forwarded to the downstream collaborator once a
// request has been decided.
type Decision struct {
	RequestID     uuid.UUID       `json:"request_id"`
	RequestNumber int             `json:"request_number"`
	NPI           string          `json:"npi"`
	Status        requests.Status `json:"status"`
	FinalValue    string          `json:"final_value"`
	Notes         string          `json:"notes,omitempty"`
	DecidedBy     string          `json:"decided_by"`
	DecidedAt     time.Time       `json:"decided_at"`
}

// DecisionOf builds the Decision for a decided request.
func DecisionOf(r requests.Request) Decision {
	d := Decision{
		RequestID:     r.ID,
		RequestNumber: r.RequestNumber,
		NPI:           r.NPI,
		Status:        r.Status,
		FinalValue:    r.FinalValue,
		Notes:         r.Notes,
	}
	if r.DecidedBy != nil {
		d.DecidedBy = *r.DecidedBy
	}
	if r.DecidedAt != nil {
		d.DecidedAt = *r.DecidedAt
	}
	return d
}

// Notifier receives exactly one Decision per decided request.
type Notifier interface {
	Notify(ctx context.Context, d Decision) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, d Decision) error

func (f NotifierFunc) Notify(ctx context.Context, d Decision) error {
	return f(ctx, d)
}

// LogNotifier records decisions in the log only.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("notifier", "log")}
}

func (n *LogNotifier) Notify(ctx context.Context, d Decision) error {
	n.logger.Info("decision recorded",
		"request_id", d.RequestID,
		"number", d.RequestNumber,
		"status", d.Status,
		"final_value", d.FinalValue,
		"by", d.DecidedBy,
	)
	return nil
}

// EventNotifier publishes decisions to the events bus keyed by request ID.
type EventNotifier struct {
	publisher events.Publisher
}

// NewEventNotifier creates an EventNotifier over p.
func NewEventNotifier(p events.Publisher) *EventNotifier {
	return &EventNotifier{publisher: p}
}

func (n *EventNotifier) Notify(ctx context.Context, d Decision) error {
	return n.publisher.Publish(ctx, d.RequestID.String(), EventDecided, d)
}
