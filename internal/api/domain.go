package api

import (
	"context"
	"fmt"

	"github.com/JaimeStill/steward/internal/intake"
	"github.com/JaimeStill/steward/internal/investigations"
	"github.com/JaimeStill/steward/internal/profiles"
	"github.com/JaimeStill/steward/internal/requests"
	"github.com/JaimeStill/steward/internal/reviews"
	"github.com/JaimeStill/steward/internal/validations"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Requests       requests.System
	Profiles       profiles.System
	Investigations investigations.System
	Validations    validations.System
	Reviews        reviews.System

	// Intake is nil when event transport is disabled.
	Intake *intake.Consumer
}

// NewDomain creates all domain systems from the API runtime.
// The request store is seeded with fixtures when the runtime enables it.
func NewDomain(runtime *Runtime) (*Domain, error) {
	requestsSystem := requests.New(runtime.Logger, runtime.Pagination)
	if runtime.Seed {
		if err := requests.Seed(context.Background(), requestsSystem); err != nil {
			return nil, fmt.Errorf("seed requests: %w", err)
		}
	}

	profilesSystem := profiles.New(runtime.Logger)

	investigationsSystem := investigations.New(
		requestsSystem,
		investigations.NewSimulator(profilesSystem),
		investigations.Config{
			Delay:   runtime.Investigation.DelayDuration(),
			Timeout: runtime.Investigation.TimeoutDuration(),
		},
		runtime.Logger,
		investigations.WithContext(runtime.Lifecycle.Context()),
		investigations.WithCache(runtime.Cache),
		investigations.WithMetrics(runtime.Metrics),
	)

	var notifier reviews.Notifier = reviews.NewLogNotifier(runtime.Logger)
	if runtime.Publisher != nil {
		notifier = reviews.NewEventNotifier(runtime.Publisher)
	}

	reviewsSystem := reviews.New(
		requestsSystem,
		notifier,
		reviews.Config{
			NotifyTimeout: runtime.Review.NotifyTimeoutDuration(),
			SessionTTL:    runtime.Review.SessionTTLDuration(),
		},
		runtime.Logger,
		reviews.WithMetrics(runtime.Metrics),
	)

	domain := &Domain{
		Requests:       requestsSystem,
		Profiles:       profilesSystem,
		Investigations: investigationsSystem,
		Validations:    validations.New(requestsSystem, profilesSystem, runtime.Logger),
		Reviews:        reviewsSystem,
	}

	if runtime.IntakeReader != nil {
		domain.Intake = intake.New(requestsSystem, runtime.IntakeReader, runtime.Metrics, runtime.Logger)
	}

	return domain, nil
}

// Start registers background domain work with the lifecycle coordinator.
// Shutdown waits for in-flight investigations to settle.
func (d *Domain) Start(runtime *Runtime) error {
	lc := runtime.Lifecycle

	if d.Intake != nil {
		if err := d.Intake.Start(lc); err != nil {
			return fmt.Errorf("intake start failed: %w", err)
		}
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		d.Investigations.Wait()
		runtime.Logger.Info("investigations drained")
	})

	return nil
}
