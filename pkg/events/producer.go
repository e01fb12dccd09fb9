package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/JaimeStill/steward/pkg/lifecycle"
)

// Publisher sends typed events keyed for partitioning.
type Publisher interface {
	Publish(ctx context.Context, key, eventType string, data any) error
}

// MessageWriter is the subset of *kafka.Writer used by Producer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps a MessageWriter with envelope encoding and logging.
type Producer struct {
	writer MessageWriter
	source string
	logger *slog.Logger
	now    func() time.Time
}

// NewWriter builds a synchronous Kafka writer for topic that waits for all replicas.
func NewWriter(cfg *Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: cfg.WriteTimeoutDuration(),
	}
}

// NewProducer creates a Producer that stamps events with source.
func NewProducer(writer MessageWriter, source string, logger *slog.Logger) *Producer {
	return &Producer{
		writer: writer,
		source: source,
		logger: logger.With("system", "events"),
		now:    time.Now,
	}
}

// Publish encodes data into an Event envelope and writes it synchronously.
func (p *Producer) Publish(ctx context.Context, key, eventType string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    p.source,
		Data:      payload,
		Timestamp: p.now().UTC(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(eventType)},
			{Key: HeaderSource, Value: []byte(p.source)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.logger.Debug("event published", "event_id", event.ID, "type", eventType, "key", key)
	return nil
}

// Start registers writer cleanup on shutdown.
func (p *Producer) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.writer.Close(); err != nil {
			p.logger.Error("producer close failed", "error", err)
			return
		}
		p.logger.Info("producer closed")
	})
	return nil
}
