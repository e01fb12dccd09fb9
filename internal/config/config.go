// Package config loads service configuration from TOML files with
// environment-specific overlays and STEWARD_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/steward/pkg/cache"
	"github.com/JaimeStill/steward/pkg/events"
	"github.com/JaimeStill/steward/pkg/metrics"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvStewardEnv             = "STEWARD_ENV"
	EnvStewardConfigDir       = "STEWARD_CONFIG_DIR"
	EnvStewardShutdownTimeout = "STEWARD_SHUTDOWN_TIMEOUT"
	EnvStewardVersion         = "STEWARD_VERSION"
)

var cacheEnv = &cache.Env{
	Enabled:  "STEWARD_CACHE_ENABLED",
	Addr:     "STEWARD_CACHE_ADDR",
	Password: "STEWARD_CACHE_PASSWORD",
	DB:       "STEWARD_CACHE_DB",
	TTL:      "STEWARD_CACHE_TTL",
	Prefix:   "STEWARD_CACHE_PREFIX",
}

var eventsEnv = &events.Env{
	Enabled:        "STEWARD_EVENTS_ENABLED",
	Brokers:        "STEWARD_EVENTS_BROKERS",
	DecisionsTopic: "STEWARD_EVENTS_DECISIONS_TOPIC",
	IntakeTopic:    "STEWARD_EVENTS_INTAKE_TOPIC",
	GroupID:        "STEWARD_EVENTS_GROUP_ID",
	WriteTimeout:   "STEWARD_EVENTS_WRITE_TIMEOUT",
}

var metricsEnv = &metrics.Env{
	Enabled:   "STEWARD_METRICS_ENABLED",
	Path:      "STEWARD_METRICS_PATH",
	Namespace: "STEWARD_METRICS_NAMESPACE",
}

// Config is the root configuration for the Steward service and console.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	API             APIConfig           `toml:"api"`
	Log             LogConfig           `toml:"log"`
	Investigation   InvestigationConfig `toml:"investigation"`
	Review          ReviewConfig        `toml:"review"`
	Cache           cache.Config        `toml:"cache"`
	Events          events.Config       `toml:"events"`
	Metrics         metrics.Config      `toml:"metrics"`
	Console         ConsoleConfig       `toml:"console"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
}

// Env returns the STEWARD_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. Files are resolved relative to STEWARD_CONFIG_DIR
// when set. If no config.toml exists, defaults and environment variables
// provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	base := configPath(BaseConfigFile)
	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.Log.Merge(&overlay.Log)
	c.Investigation.Merge(&overlay.Investigation)
	c.Review.Merge(&overlay.Review)
	c.Cache.Merge(&overlay.Cache)
	c.Events.Merge(&overlay.Events)
	c.Metrics.Merge(&overlay.Metrics)
	c.Console.Merge(&overlay.Console)
}

// Finalize applies defaults, environment overrides, and validation to every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"api", c.API.Finalize},
		{"log", c.Log.Finalize},
		{"investigation", c.Investigation.Finalize},
		{"review", c.Review.Finalize},
		{"cache", func() error { return c.Cache.Finalize(cacheEnv) }},
		{"events", func() error { return c.Events.Finalize(eventsEnv) }},
		{"metrics", func() error { return c.Metrics.Finalize(metricsEnv) }},
		{"console", c.Console.Finalize},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvStewardShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvStewardVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func configPath(name string) string {
	if dir := os.Getenv(EnvStewardConfigDir); dir != "" {
		return dir + string(os.PathSeparator) + name
	}
	return name
}

func overlayPath() string {
	if env := os.Getenv(EnvStewardEnv); env != "" {
		path := configPath(fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
