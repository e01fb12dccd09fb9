package investigations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/cache"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// Config controls investigation timing.
type Config struct {
	Delay   time.Duration
	Timeout time.Duration
}

// Option configures a runner.
type Option func(*runner)

// WithContext sets the parent context of background runs.
func WithContext(ctx context.Context) Option {
	return func(r *runner) {
		r.base = ctx
	}
}

// WithCache stores resolved results keyed by NPI and request type.
func WithCache(c cache.System) Option {
	return func(r *runner) {
		r.cache = c
	}
}

// WithMetrics records run outcomes on m.
func WithMetrics(m *metrics.Registry) Option {
	return func(r *runner) {
		r.metrics = m
	}
}

// WithClock overrides the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		r.now = now
	}
}

type run struct {
	snapshot Snapshot
	cancel   context.CancelFunc
	done     chan struct{}
}

type runner struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*run
	wg   sync.WaitGroup

	store    requests.System
	resolver Resolver
	cfg      Config

	base    context.Context
	cache   cache.System
	metrics *metrics.Registry
	now     func() time.Time
	logger  *slog.Logger
}

// New creates a System that investigates requests from store using resolver.
func New(store requests.System, resolver Resolver, cfg Config, logger *slog.Logger, opts ...Option) System {
	r := &runner{
		runs:     make(map[uuid.UUID]*run),
		store:    store,
		resolver: resolver,
		cfg:      cfg,
		base:     context.Background(),
		now:      time.Now,
		logger:   logger.With("system", "investigations"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *runner) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *runner) Sources(rt requests.RequestType) []SourceView {
	return Sources(rt)
}

func (r *runner) Start(ctx context.Context, requestID uuid.UUID) (*Snapshot, error) {
	req, err := r.store.Find(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.NPI) == "" {
		return nil, ErrEmptyNPI
	}

	runCtx, cancel := context.WithCancel(r.base)
	next := &run{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	r.mu.Lock()
	var generation uint64 = 1
	if prev, ok := r.runs[requestID]; ok {
		generation = prev.snapshot.Generation + 1
		prev.cancel()
	}

	results := searching()
	next.snapshot = Snapshot{
		RequestID:   requestID,
		NPI:         req.NPI,
		RequestType: req.RequestType,
		Generation:  generation,
		State:       StateSearching,
		Results:     results,
		Summary:     Summarize(results),
		StartedAt:   r.now(),
	}
	r.runs[requestID] = next
	snap := next.snapshot.clone()
	r.mu.Unlock()

	r.logger.Info("investigation started",
		"request_id", requestID,
		"npi", req.NPI,
		"generation", generation,
	)

	r.wg.Go(func() {
		defer close(next.done)
		defer cancel()
		r.execute(runCtx, next, req.NPI, req.RequestType)
	})

	return &snap, nil
}

func (r *runner) execute(ctx context.Context, target *run, npi string, rt requests.RequestType) {
	id, generation := target.snapshot.RequestID, target.snapshot.Generation

	if r.cfg.Delay > 0 {
		timer := time.NewTimer(r.cfg.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.observe("cancelled")
			r.logger.Debug("investigation cancelled", "request_id", id, "generation", generation)
			return
		case <-timer.C:
		}
	}

	resolveCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		resolveCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	results, cached, err := r.resolve(resolveCtx, npi, rt)
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		r.observe("cancelled")
		return
	}

	r.complete(target, results, cached, err)
}

func (r *runner) resolve(ctx context.Context, npi string, rt requests.RequestType) (map[SourceID]Result, bool, error) {
	key := cacheKey(npi, rt)

	if r.cache != nil {
		if raw, ok, err := r.cache.Get(ctx, key); err != nil {
			r.logger.Warn("investigation cache read failed", "key", key, "error", err)
		} else if ok {
			var results map[SourceID]Result
			if err := json.Unmarshal(raw, &results); err == nil {
				return results, true, nil
			}
			r.logger.Warn("investigation cache entry unreadable", "key", key)
		}
	}

	results, err := r.resolver.Run(ctx, npi, rt)
	if err != nil {
		return nil, false, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(results); err == nil {
			if err := r.cache.Set(ctx, key, raw); err != nil {
				r.logger.Warn("investigation cache write failed", "key", key, "error", err)
			}
		}
	}

	return results, false, nil
}

// complete installs the results only if target is still the current run
// for its request. Stale completions are dropped.
func (r *runner) complete(target *run, results map[SourceID]Result, cached bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, generation := target.snapshot.RequestID, target.snapshot.Generation
	if current := r.runs[id]; current != target {
		r.observe("stale")
		r.logger.Debug("stale investigation dropped", "request_id", id, "generation", generation)
		return
	}

	at := r.now()
	target.snapshot.CompletedAt = &at
	target.snapshot.Cached = cached

	if err != nil {
		target.snapshot.State = StateFailed
		target.snapshot.Results = failed(fmt.Sprintf("Search failed: %v", err))
		r.observe("error")
		r.logger.Warn("investigation failed", "request_id", id, "generation", generation, "error", err)
	} else {
		normalized := make(map[SourceID]Result, len(results))
		for k, v := range results {
			normalized[k] = v.Normalize()
		}
		target.snapshot.State = StateComplete
		target.snapshot.Results = normalized
		r.observe("resolved")
	}
	target.snapshot.Summary = Summarize(target.snapshot.Results)

	if r.metrics != nil {
		r.metrics.InvestigationDuration.Observe(at.Sub(target.snapshot.StartedAt).Seconds())
	}
	r.logger.Info("investigation completed",
		"request_id", id,
		"generation", generation,
		"state", target.snapshot.State,
		"found", target.snapshot.Summary.Found,
	)
}

func (r *runner) Snapshot(ctx context.Context, requestID uuid.UUID) (*Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.runs[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	snap := current.snapshot.clone()
	return &snap, nil
}

func (r *runner) Await(ctx context.Context, requestID uuid.UUID, generation uint64) (*Snapshot, error) {
	r.mu.Lock()
	current, ok := r.runs[requestID]
	if !ok {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	if generation == 0 {
		generation = current.snapshot.Generation
	}
	switch {
	case generation < current.snapshot.Generation:
		r.mu.Unlock()
		return nil, fmt.Errorf("generation %d: %w", generation, ErrSuperseded)
	case generation > current.snapshot.Generation:
		r.mu.Unlock()
		return nil, fmt.Errorf("generation %d: %w", generation, ErrNotFound)
	}
	done := current.done
	r.mu.Unlock()

	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runs[requestID] != current {
		return nil, fmt.Errorf("generation %d: %w", generation, ErrSuperseded)
	}
	snap := current.snapshot.clone()
	return &snap, nil
}

func (r *runner) Wait() {
	r.wg.Wait()
}

func (r *runner) observe(outcome string) {
	if r.metrics != nil {
		r.metrics.Investigations.WithLabelValues(outcome).Inc()
	}
}

func cacheKey(npi string, rt requests.RequestType) string {
	return fmt.Sprintf("investigation:%s:%s", npi, rt)
}
