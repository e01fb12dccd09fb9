package requests

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/pkg/pagination"
)

// Option configures a store.
type Option func(*store)

// WithClock overrides the time source used for submission and decision timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *store) {
		s.now = now
	}
}

type store struct {
	mu         sync.RWMutex
	items      []Request
	index      map[uuid.UUID]int
	lastNumber int

	now        func() time.Time
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an empty in-memory request store.
func New(logger *slog.Logger, pagination pagination.Config, opts ...Option) System {
	s := &store{
		index:      make(map[uuid.UUID]int),
		now:        time.Now,
		logger:     logger.With("system", "requests"),
		pagination: pagination,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *store) List(ctx context.Context) []Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Request, len(s.items))
	copy(out, s.items)
	return out
}

func (s *store) Filter(ctx context.Context, term, statusFilter string) ([]Request, error) {
	if !validStatusFilter(statusFilter) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilter, statusFilter)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Request, 0, len(s.items))
	for _, r := range s.items {
		if r.Matches(term) && matchStatus(r, statusFilter) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *store) Page(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Request], error) {
	matched, err := s.Filter(ctx, page.Term(), filters.StatusFilter())
	if err != nil {
		return nil, err
	}

	kept := matched[:0]
	for _, r := range matched {
		if filters.Match(r) {
			kept = append(kept, r)
		}
	}

	page.Normalize(s.pagination)
	result := pagination.Apply(kept, page)
	return &result, nil
}

func (s *store) Find(ctx context.Context, id uuid.UUID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	r := s.items[i]
	return &r, nil
}

func (s *store) Create(ctx context.Context, cmd CreateCommand) (*Request, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	submitted := s.now().UTC()
	if cmd.SubmittedDate != nil {
		submitted = cmd.SubmittedDate.UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastNumber++
	r := Request{
		ID:            uuid.New(),
		RequestNumber: s.lastNumber,
		NPI:           cmd.NPI,
		Description:   cmd.Description,
		Status:        StatusPending,
		RequestType:   cmd.RequestType,
		Priority:      cmd.Priority,
		SubmittedDate: submitted,
		CurrentValue:  cmd.CurrentValue,
		ProposedValue: cmd.ProposedValue,
	}

	s.index[r.ID] = len(s.items)
	s.items = append(s.items, r)

	s.logger.Info("request created", "id", r.ID, "number", r.RequestNumber, "npi", r.NPI, "type", r.RequestType)
	return &r, nil
}

// Decide transitions a pending request to a terminal status. The pending
// check and the write happen under one lock, so concurrent callers cannot
// both succeed.
func (s *store) Decide(ctx context.Context, id uuid.UUID, cmd DecideCommand) (*Request, error) {
	if !cmd.Status.Terminal() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDecision, cmd.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}

	r := &s.items[i]
	if !r.Pending() {
		return nil, fmt.Errorf("request #%d is %s: %w", r.RequestNumber, r.Status, ErrNotPending)
	}

	decidedAt := s.now().UTC()
	decidedBy := cmd.DecidedBy

	r.Status = cmd.Status
	r.FinalValue = cmd.FinalValue
	r.Notes = cmd.Notes
	r.DecidedBy = &decidedBy
	r.DecidedAt = &decidedAt

	s.logger.Info("request decided", "id", r.ID, "number", r.RequestNumber, "status", r.Status, "by", decidedBy)
	out := *r
	return &out, nil
}

func (s *store) Stats(ctx context.Context) Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st Stats
	for _, r := range s.items {
		switch r.Status {
		case StatusPending:
			st.Pending++
		case StatusApproved:
			st.Approved++
		case StatusRejected:
			st.Rejected++
		}
	}
	st.Total = len(s.items)
	return st
}
