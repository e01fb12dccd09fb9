// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, metrics, cache, event transport)
// that domain systems require.
package infrastructure

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/JaimeStill/steward/internal/config"
	"github.com/JaimeStill/steward/pkg/cache"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/lifecycle"
	"github.com/JaimeStill/steward/pkg/metrics"
)

// EventSource identifies this service on published events.
const EventSource = "steward"

// Infrastructure holds the core systems required by all domain modules.
// Optional systems are nil when their config section is disabled.
type Infrastructure struct {
	Lifecycle    *lifecycle.Coordinator
	Logger       *slog.Logger
	Metrics      *metrics.Registry
	Cache        cache.System
	Publisher    events.Publisher
	IntakeReader events.Reader

	producer *events.Producer
}

// New creates an Infrastructure from the application configuration, logging to w.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	logger := cfg.Log.NewLogger(w)

	infra := &Infrastructure{
		Lifecycle: lifecycle.New(),
		Logger:    logger,
		Cache:     cache.New(&cfg.Cache, logger),
	}

	if cfg.Metrics.Enabled {
		infra.Metrics = metrics.New(cfg.Metrics.Namespace)
	}

	if cfg.Events.Enabled {
		writer := events.NewWriter(&cfg.Events, cfg.Events.DecisionsTopic)
		infra.producer = events.NewProducer(writer, EventSource, logger)
		infra.Publisher = infra.producer
		infra.IntakeReader = events.NewReader(&cfg.Events, cfg.Events.IntakeTopic)
	}

	return infra, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if i.Cache != nil {
		if err := i.Cache.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("cache start failed: %w", err)
		}
	}
	if i.producer != nil {
		if err := i.producer.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("producer start failed: %w", err)
		}
	}
	return nil
}
