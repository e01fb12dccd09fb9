package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Reader is the subset of *kafka.Reader used by Consume.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewReader builds a consumer-group reader for topic.
func NewReader(cfg *Config, topic string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

// Handler processes one decoded event. A returned error is retried in place
// with capped exponential backoff. The message is committed only once the
// handler succeeds, so no later commit can pass over it.
type Handler func(ctx context.Context, event Event) error

const (
	DefaultRetryBackoff    = 500 * time.Millisecond
	DefaultMaxRetryBackoff = 30 * time.Second
)

type consumeOptions struct {
	base time.Duration
	max  time.Duration
}

// ConsumeOption configures Consume.
type ConsumeOption func(*consumeOptions)

// WithRetryBackoff sets the first retry delay and its cap.
func WithRetryBackoff(base, limit time.Duration) ConsumeOption {
	return func(o *consumeOptions) {
		o.base = base
		o.max = limit
	}
}

// ErrMalformed marks a message whose value is not a valid Event envelope.
var ErrMalformed = errors.New("malformed event")

// Consume fetches messages until ctx is cancelled, dispatching each decoded
// event to handle. Malformed messages are committed and skipped. A message
// whose handler is still failing at cancellation stays uncommitted and is
// redelivered from the committed offset on the next start.
func Consume(ctx context.Context, reader Reader, logger *slog.Logger, handle Handler, opts ...ConsumeOption) error {
	o := consumeOptions{base: DefaultRetryBackoff, max: DefaultMaxRetryBackoff}
	for _, opt := range opts {
		opt(&o)
	}

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		event, err := decode(msg)
		if err != nil {
			logger.Warn("skipping message", "offset", msg.Offset, "partition", msg.Partition, "error", err)
			commit(ctx, reader, logger, msg)
			continue
		}

		if !deliver(ctx, logger, o, event, handle) {
			return nil
		}

		commit(ctx, reader, logger, msg)
	}
}

// deliver runs handle until it succeeds. It returns false if ctx ends first.
func deliver(ctx context.Context, logger *slog.Logger, o consumeOptions, event Event, handle Handler) bool {
	for attempt := 1; ; attempt++ {
		err := handle(ctx, event)
		if err == nil {
			return true
		}

		wait := backoff(attempt, o.base, o.max)
		logger.Error("event handling failed",
			"event_id", event.ID,
			"type", event.Type,
			"attempt", attempt,
			"retry_in", wait,
			"error", err,
		)

		if ctx.Err() != nil {
			return false
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}
}

// backoff is base * 2^(attempt-1), capped at limit.
func backoff(attempt int, base, limit time.Duration) time.Duration {
	if attempt <= 0 {
		return 0
	}
	if attempt > 32 {
		return limit
	}
	d := base << (attempt - 1)
	if d <= 0 || d > limit {
		return limit
	}
	return d
}

func decode(msg kafka.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if event.Type == "" {
		for _, h := range msg.Headers {
			if h.Key == HeaderEventType {
				event.Type = string(h.Value)
			}
		}
	}
	if event.Type == "" {
		return Event{}, fmt.Errorf("%w: missing event type", ErrMalformed)
	}
	return event, nil
}

func commit(ctx context.Context, reader Reader, logger *slog.Logger, msg kafka.Message) {
	if err := reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		logger.Error("commit failed", "offset", msg.Offset, "error", err)
	}
}
