// Package intake creates stewardship requests from the upstream request stream.
package intake

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// EventSubmitted is the event type carrying a requests.CreateCommand.
const EventSubmitted = "stewardship.request.submitted"

// DefaultDedupWindow is how many recent event IDs are remembered.
const DefaultDedupWindow = 10000

// Consumer turns submitted events into pending requests. Events that fail
// validation are logged and skipped. Store failures are retried by the
// consume loop before the message is committed.
type Consumer struct {
	store   requests.System
	reader  events.Reader
	metrics *metrics.Registry
	logger  *slog.Logger
	opts    []events.ConsumeOption

	mu   sync.Mutex
	seen *recentIDs
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithDedupWindow bounds duplicate detection to the last n event IDs.
func WithDedupWindow(n int) Option {
	return func(c *Consumer) {
		if n > 0 {
			c.seen = newRecentIDs(n)
		}
	}
}

// WithConsumeOptions passes options through to events.Consume.
func WithConsumeOptions(opts ...events.ConsumeOption) Option {
	return func(c *Consumer) {
		c.opts = append(c.opts, opts...)
	}
}

// New creates a Consumer reading from reader into store. m may be nil.
func New(store requests.System, reader events.Reader, m *metrics.Registry, logger *slog.Logger, opts ...Option) *Consumer {
	c := &Consumer{
		store:   store,
		reader:  reader,
		metrics: m,
		logger:  logger.With("system", "intake"),
		seen:    newRecentIDs(DefaultDedupWindow),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start consumes in the background until the coordinator shuts down.
func (c *Consumer) Start(lc *lifecycle.Coordinator) error {
	lc.Go(func(ctx context.Context) {
		c.logger.Info("intake consumer started")
		if err := c.Run(ctx); err != nil {
			c.logger.Error("intake consumer stopped", "error", err)
		}
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := c.reader.Close(); err != nil {
			c.logger.Error("intake reader close failed", "error", err)
			return
		}
		c.logger.Info("intake consumer closed")
	})

	return nil
}

// Run blocks consuming events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	return events.Consume(ctx, c.reader, c.logger, c.Handle, c.opts...)
}

// Handle processes one event. Redelivered event IDs are ignored.
func (c *Consumer) Handle(ctx context.Context, event events.Event) error {
	if event.Type != EventSubmitted {
		c.observe("skipped")
		c.logger.Debug("ignoring event", "event_id", event.ID, "type", event.Type)
		return nil
	}

	if c.duplicate(event.ID) {
		c.observe("skipped")
		c.logger.Debug("duplicate event", "event_id", event.ID)
		return nil
	}

	var cmd requests.CreateCommand
	if err := event.Decode(&cmd); err != nil {
		c.observe("rejected")
		c.logger.Warn("intake payload unreadable", "event_id", event.ID, "error", err)
		return nil
	}

	req, err := c.store.Create(ctx, cmd)
	switch {
	case errors.Is(err, requests.ErrInvalidRequest),
		errors.Is(err, requests.ErrIncompleteChange):
		c.observe("rejected")
		c.logger.Warn("intake request rejected", "event_id", event.ID, "source", event.Source, "error", err)
		return nil
	case err != nil:
		// Forget the ID so the retry is not taken for a duplicate.
		c.forget(event.ID)
		return err
	}

	c.observe("created")
	c.logger.Info("intake request created",
		"event_id", event.ID,
		"source", event.Source,
		"number", req.RequestNumber,
		"npi", req.NPI,
	)
	return nil
}

func (c *Consumer) duplicate(id string) bool {
	if id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.seen.add(id)
}

func (c *Consumer) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen.remove(id)
}

func (c *Consumer) observe(result string) {
	if c.metrics != nil {
		c.metrics.IntakeMessages.WithLabelValues(result).Inc()
	}
}
