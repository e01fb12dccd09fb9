package validations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
)

// Report is the evaluated checklist for a request.
type Report struct {
	RequestID  uuid.UUID   `json:"request_id"`
	Checks     []Check     `json:"checks"`
	Summary    Summary     `json:"summary"`
	Guidelines []Guideline `json:"guidelines"`
}

// System defines the public contract for validation checks.
type System interface {
	Handler() *Handler
	Report(ctx context.Context, requestID uuid.UUID) (*Report, error)

	// Run completes a pending check. Completion is remembered per request.
	Run(ctx context.Context, requestID uuid.UUID, check CheckID) (*Report, error)
}

type checklist struct {
	mu        sync.Mutex
	completed map[uuid.UUID]map[CheckID]bool

	requests requests.System
	profiles profiles.System
	logger   *slog.Logger
}

// New creates a System evaluating requests from store against profile lookups.
func New(store requests.System, lookup profiles.System, logger *slog.Logger) System {
	return &checklist{
		completed: make(map[uuid.UUID]map[CheckID]bool),
		requests:  store,
		profiles:  lookup,
		logger:    logger.With("system", "validations"),
	}
}

func (c *checklist) Handler() *Handler {
	return NewHandler(c, c.logger)
}

func (c *checklist) Report(ctx context.Context, requestID uuid.UUID) (*Report, error) {
	checks, req, err := c.evaluate(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return newReport(req, checks), nil
}

func (c *checklist) Run(ctx context.Context, requestID uuid.UUID, check CheckID) (*Report, error) {
	if !slices.Contains(CheckOrder, check) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, check)
	}

	checks, req, err := c.evaluate(ctx, requestID)
	if err != nil {
		return nil, err
	}

	i := slices.IndexFunc(checks, func(item Check) bool { return item.ID == check })
	if !checks[i].Runnable() {
		return nil, fmt.Errorf("%s is %s: %w", check, checks[i].Status, ErrNotRunnable)
	}

	c.mu.Lock()
	done, ok := c.completed[requestID]
	if !ok {
		done = make(map[CheckID]bool)
		c.completed[requestID] = done
	}
	done[check] = true
	c.mu.Unlock()

	c.logger.Info("validation check completed", "request_id", requestID, "check", check)

	checks[i].Status = StatusPassed
	checks[i].Details = CompletedDetails
	return newReport(req, checks), nil
}

func (c *checklist) evaluate(ctx context.Context, requestID uuid.UUID) ([]Check, *requests.Request, error) {
	req, err := c.requests.Find(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}

	profile, err := c.profiles.Lookup(ctx, req.NPI)
	if err != nil && !errors.Is(err, profiles.ErrNotFound) {
		return nil, nil, err
	}

	checks := Evaluate(*req, profile)

	c.mu.Lock()
	done := c.completed[requestID]
	for i := range checks {
		if done[checks[i].ID] && checks[i].Runnable() {
			checks[i].Status = StatusPassed
			checks[i].Details = CompletedDetails
		}
	}
	c.mu.Unlock()

	return checks, req, nil
}

func newReport(req *requests.Request, checks []Check) *Report {
	return &Report{
		RequestID:  req.ID,
		Checks:     checks,
		Summary:    Summarize(checks),
		Guidelines: Guidelines(req.RequestType),
	}
}
