package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultDialect        = "auto"
	DefaultWorkers        = 4
	DefaultOutput         = "text"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvDialect    = "MIPSCAN_DIALECT"
	EnvWorkers    = "MIPSCAN_WORKERS"
	EnvLogSources = "MIPSCAN_LOG_SOURCES"
)

// Outputs lists the supported report formats.
var Outputs = []string{"text", "json", "csv"}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Dialect:     DefaultDialect,
		GetProgress: true,
		Workers:     DefaultWorkers,
		LogSources:  []string{},
		Output:      DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if d := os.Getenv(EnvDialect); d != "" {
		c.Dialect = d
	}

	if w := os.Getenv(EnvWorkers); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}

	// Comma-separated list replaces the configured sources
	if s := os.Getenv(EnvLogSources); s != "" {
		var sources []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				sources = append(sources, p)
			}
		}
		c.LogSources = sources
	}

	return nil
}
