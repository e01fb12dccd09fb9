package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// Actions reports which decision controls are enabled.
type Actions struct {
	Approve bool   `json:"approve"`
	Reject  bool   `json:"reject"`
	Reason  string `json:"reason,omitempty"`
}

// Outcome is the result of a recorded decision. Warning is set when the
// decision was stored but the downstream notification failed.
type Outcome struct {
	Request requests.Request `json:"request"`
	View    ViewState        `json:"view"`
	Warning string           `json:"warning,omitempty"`
}

// State is a point-in-time copy of a session.
type State struct {
	ID         uuid.UUID `json:"id"`
	Reviewer   string    `json:"reviewer"`
	View       ViewState `json:"view"`
	Notes      string    `json:"notes"`
	FinalValue string    `json:"final_value"`
	Actions    Actions   `json:"actions"`
}

type deps struct {
	store         requests.System
	notifier      Notifier
	notifyTimeout time.Duration
	metrics       *metrics.Registry
	now           func() time.Time
	logger        *slog.Logger
}

// Session is one reviewer's walk through the workflow. All methods are
// safe for concurrent use; transitions are serialized per session.
type Session struct {
	mu         sync.Mutex
	id         uuid.UUID
	reviewer   string
	view       View
	notes      string
	finalValue string
	lastActive atomic.Int64

	deps *deps
}

func newSession(reviewer string, d *deps) *Session {
	s := &Session{
		id:       uuid.New(),
		reviewer: reviewer,
		view:     Listing{},
		deps:     d,
	}
	s.touch()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Reviewer returns the name recorded on decisions made in this session.
func (s *Session) Reviewer() string {
	return s.reviewer
}

// View returns the current view.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) idleSince() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

func (s *Session) touch() {
	s.lastActive.Store(s.deps.now().UnixNano())
}

// Select opens a request from the list. The final value starts as the
// request's proposed value.
func (s *Session) Select(ctx context.Context, requestID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.view.(Listing); !ok {
		return fmt.Errorf("select from %s: %w", StateOf(s.view).Kind, ErrInvalidTransition)
	}

	req, err := s.deps.store.Find(ctx, requestID)
	if err != nil {
		return err
	}

	s.view = Viewing{RequestID: req.ID, Tab: TabProfile}
	s.notes = ""
	s.finalValue = req.ProposedValue
	s.touch()
	return nil
}

// Back returns to the request list.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.view.(Listing); ok {
		return fmt.Errorf("back from listing: %w", ErrInvalidTransition)
	}

	s.view = Listing{}
	s.notes = ""
	s.finalValue = ""
	s.touch()
	return nil
}

// SetTab switches the read view of the open request.
func (s *Session) SetTab(tab Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTab, tab)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.view.(Viewing)
	if !ok {
		return fmt.Errorf("set tab: %w", ErrInvalidTransition)
	}
	v.Tab = tab
	s.view = v
	s.touch()
	return nil
}

// SetNotes records reviewer notes for the open request.
func (s *Session) SetNotes(notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.view.(Viewing); !ok {
		return fmt.Errorf("set notes: %w", ErrInvalidTransition)
	}
	s.notes = notes
	s.touch()
	return nil
}

// SetFinalValue records the value the decision will carry.
func (s *Session) SetFinalValue(value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.view.(Viewing); !ok {
		return fmt.Errorf("set final value: %w", ErrInvalidTransition)
	}
	s.finalValue = value
	s.touch()
	return nil
}

// FinalValue returns the value the next decision will carry by default.
func (s *Session) FinalValue() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalValue
}

// Approve records an approved decision for the open request.
func (s *Session) Approve(ctx context.Context, finalValue string) (*Outcome, error) {
	return s.decide(ctx, requests.StatusApproved, finalValue)
}

// Reject records a rejected decision for the open request.
func (s *Session) Reject(ctx context.Context, finalValue string) (*Outcome, error) {
	return s.decide(ctx, requests.StatusRejected, finalValue)
}

// decide stores the decision through the store's compare-and-swap and then
// notifies exactly once. A failed notification does not undo the decision.
func (s *Session) decide(ctx context.Context, status requests.Status, finalValue string) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.view.(Viewing)
	if !ok {
		return nil, fmt.Errorf("%s from %s: %w", status, StateOf(s.view).Kind, ErrInvalidTransition)
	}

	req, err := s.deps.store.Decide(ctx, v.RequestID, requests.DecideCommand{
		Status:     status,
		FinalValue: finalValue,
		Notes:      s.notes,
		DecidedBy:  s.reviewer,
	})
	if err != nil {
		return nil, err
	}

	if s.deps.metrics != nil {
		s.deps.metrics.Decisions.WithLabelValues(string(status)).Inc()
	}

	s.view = Closed{RequestID: req.ID, Status: req.Status}
	s.finalValue = req.FinalValue
	s.touch()

	out := &Outcome{Request: *req, View: StateOf(s.view)}
	if err := s.notify(ctx, DecisionOf(*req)); err != nil {
		out.Warning = fmt.Sprintf("Decision recorded, but notification failed: %v", err)
	}
	return out, nil
}

func (s *Session) notify(ctx context.Context, d Decision) error {
	nctx := context.WithoutCancel(ctx)
	if s.deps.notifyTimeout > 0 {
		var cancel context.CancelFunc
		nctx, cancel = context.WithTimeout(nctx, s.deps.notifyTimeout)
		defer cancel()
	}

	err := s.deps.notifier.Notify(nctx, d)
	if err == nil {
		return nil
	}

	if s.deps.metrics != nil {
		s.deps.metrics.NotifyFailures.Inc()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %v", s.deps.notifyTimeout)
	}
	s.deps.logger.Warn("decision notification failed",
		"session", s.id,
		"request_id", d.RequestID,
		"status", d.Status,
		"error", err,
	)
	return err
}

// Actions reports whether approve and reject are available. They are
// enabled only while viewing a pending request.
func (s *Session) Actions(ctx context.Context) Actions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actions(ctx)
}

func (s *Session) actions(ctx context.Context) Actions {
	v, ok := s.view.(Viewing)
	if !ok {
		return Actions{Reason: "no request open"}
	}

	req, err := s.deps.store.Find(ctx, v.RequestID)
	if err != nil {
		return Actions{Reason: err.Error()}
	}
	if !req.Pending() {
		return Actions{Reason: fmt.Sprintf("request is already %s", req.Status)}
	}
	return Actions{Approve: true, Reject: true}
}

// Snapshot returns a copy of the session state and marks the session active.
func (s *Session) Snapshot(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	return State{
		ID:         s.id,
		Reviewer:   s.reviewer,
		View:       StateOf(s.view),
		Notes:      s.notes,
		FinalValue: s.finalValue,
		Actions:    s.actions(ctx),
	}
}
