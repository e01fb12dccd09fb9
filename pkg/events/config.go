package events

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds Kafka broker and topic settings.
type Config struct {
	Enabled        bool     `toml:"enabled"`
	Brokers        []string `toml:"brokers"`
	DecisionsTopic string   `toml:"decisions_topic"`
	IntakeTopic    string   `toml:"intake_topic"`
	GroupID        string   `toml:"group_id"`
	WriteTimeout   string   `toml:"write_timeout"`
}

// Env maps config fields to environment variable names.
type Env struct {
	Enabled        string
	Brokers        string
	DecisionsTopic string
	IntakeTopic    string
	GroupID        string
	WriteTimeout   string
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (c *Config) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.Brokers != nil {
		c.Brokers = overlay.Brokers
	}
	if overlay.DecisionsTopic != "" {
		c.DecisionsTopic = overlay.DecisionsTopic
	}
	if overlay.IntakeTopic != "" {
		c.IntakeTopic = overlay.IntakeTopic
	}
	if overlay.GroupID != "" {
		c.GroupID = overlay.GroupID
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
}

func (c *Config) loadDefaults() {
	if len(c.Brokers) == 0 {
		c.Brokers = []string{"localhost:9092"}
	}
	if c.DecisionsTopic == "" {
		c.DecisionsTopic = "stewardship.decisions"
	}
	if c.IntakeTopic == "" {
		c.IntakeTopic = "stewardship.requests"
	}
	if c.GroupID == "" {
		c.GroupID = "steward"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "10s"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.Enabled = b
			}
		}
	}
	if env.Brokers != "" {
		if v := os.Getenv(env.Brokers); v != "" {
			brokers := strings.Split(v, ",")
			c.Brokers = make([]string, 0, len(brokers))
			for _, b := range brokers {
				if trimmed := strings.TrimSpace(b); trimmed != "" {
					c.Brokers = append(c.Brokers, trimmed)
				}
			}
		}
	}
	if env.DecisionsTopic != "" {
		if v := os.Getenv(env.DecisionsTopic); v != "" {
			c.DecisionsTopic = v
		}
	}
	if env.IntakeTopic != "" {
		if v := os.Getenv(env.IntakeTopic); v != "" {
			c.IntakeTopic = v
		}
	}
	if env.GroupID != "" {
		if v := os.Getenv(env.GroupID); v != "" {
			c.GroupID = v
		}
	}
	if env.WriteTimeout != "" {
		if v := os.Getenv(env.WriteTimeout); v != "" {
			c.WriteTimeout = v
		}
	}
}

func (c *Config) validate() error {
	if c.Enabled && len(c.Brokers) == 0 {
		return fmt.Errorf("brokers required when enabled")
	}
	if _, err := time.ParseDuration(c.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	return nil
}
