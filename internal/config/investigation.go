package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvInvestigationDelay   = "STEWARD_INVESTIGATION_DELAY"
	EnvInvestigationTimeout = "STEWARD_INVESTIGATION_TIMEOUT"
	EnvReviewNotifyTimeout  = "STEWARD_REVIEW_NOTIFY_TIMEOUT"
	EnvReviewSessionTTL     = "STEWARD_REVIEW_SESSION_TTL"
)

// InvestigationConfig controls external source resolution.
type InvestigationConfig struct {
	Delay   string `toml:"delay"`
	Timeout string `toml:"timeout"`
}

// DelayDuration returns the simulated latency applied before results resolve.
func (c *InvestigationConfig) DelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.Delay)
	return d
}

// TimeoutDuration returns the upper bound for a single resolution.
func (c *InvestigationConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InvestigationConfig) Finalize() error {
	if c.Delay == "" {
		c.Delay = "2s"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if v := os.Getenv(EnvInvestigationDelay); v != "" {
		c.Delay = v
	}
	if v := os.Getenv(EnvInvestigationTimeout); v != "" {
		c.Timeout = v
	}

	delay, err := time.ParseDuration(c.Delay)
	if err != nil || delay < 0 {
		return fmt.Errorf("invalid delay: %s", c.Delay)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *InvestigationConfig) Merge(overlay *InvestigationConfig) {
	if overlay.Delay != "" {
		c.Delay = overlay.Delay
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// ReviewConfig controls decision notification and session retention.
type ReviewConfig struct {
	NotifyTimeout string `toml:"notify_timeout"`
	SessionTTL    string `toml:"session_ttl"`
}

// NotifyTimeoutDuration returns the bound on a single decision notification.
func (c *ReviewConfig) NotifyTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.NotifyTimeout)
	return d
}

// SessionTTLDuration returns how long an idle session is retained.
func (c *ReviewConfig) SessionTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.SessionTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReviewConfig) Finalize() error {
	if c.NotifyTimeout == "" {
		c.NotifyTimeout = "5s"
	}
	if c.SessionTTL == "" {
		c.SessionTTL = "8h"
	}
	if v := os.Getenv(EnvReviewNotifyTimeout); v != "" {
		c.NotifyTimeout = v
	}
	if v := os.Getenv(EnvReviewSessionTTL); v != "" {
		c.SessionTTL = v
	}

	if d, err := time.ParseDuration(c.NotifyTimeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid notify_timeout: %s", c.NotifyTimeout)
	}
	if d, err := time.ParseDuration(c.SessionTTL); err != nil || d <= 0 {
		return fmt.Errorf("invalid session_ttl: %s", c.SessionTTL)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	if overlay.NotifyTimeout != "" {
		c.NotifyTimeout = overlay.NotifyTimeout
	}
	if overlay.SessionTTL != "" {
		c.SessionTTL = overlay.SessionTTL
	}
}
