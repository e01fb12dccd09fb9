package config

import "os"

const (
	EnvConsoleReviewer = "STEWARD_CONSOLE_REVIEWER"
	EnvConsoleLogFile  = "STEWARD_CONSOLE_LOG_FILE"
)

// ConsoleConfig holds settings for the interactive review console.
type ConsoleConfig struct {
	Reviewer string `toml:"reviewer"`
	LogFile  string `toml:"log_file"`
}

// Finalize applies defaults and environment variable overrides.
// The reviewer defaults to the current OS user.
func (c *ConsoleConfig) Finalize() error {
	if c.Reviewer == "" {
		c.Reviewer = os.Getenv("USER")
	}
	if c.Reviewer == "" {
		c.Reviewer = "steward"
	}
	if c.LogFile == "" {
		c.LogFile = "steward-console.log"
	}
	if v := os.Getenv(EnvConsoleReviewer); v != "" {
		c.Reviewer = v
	}
	if v := os.Getenv(EnvConsoleLogFile); v != "" {
		c.LogFile = v
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ConsoleConfig) Merge(overlay *ConsoleConfig) {
	if overlay.Reviewer != "" {
		c.Reviewer = overlay.Reviewer
	}
	if overlay.LogFile != "" {
		c.LogFile = overlay.LogFile
	}
}
