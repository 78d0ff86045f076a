// Package config provides configuration loading and validation for mipscan.
package config

import "time"

// Config is the root configuration structure loaded from YAML or TOML.
type Config struct {
	// Dialect is the solver dialect used when none is given on the command
	// line. "auto" detects it per log.
	Dialect string `yaml:"dialect" toml:"dialect"`

	// GetProgress enables the progress table and the analytics derived from
	// it. Very large logs parse faster without it.
	GetProgress bool `yaml:"get_progress" toml:"get_progress"`

	// Workers is the number of logs parsed at once in batch mode.
	Workers int `yaml:"workers" toml:"workers"`

	// LogSources are paths, directories or glob patterns for batch mode.
	LogSources []string `yaml:"log_sources,omitempty" toml:"log_sources"`

	// Output is the report format: text, json or csv.
	Output string `yaml:"output" toml:"output"`

	Store    StoreConfig     `yaml:"store,omitempty" toml:"store"`
	Metrics  MetricsConfig   `yaml:"metrics,omitempty" toml:"metrics"`
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty" toml:"webhooks"`
}

// StoreConfig enables persistence of run summaries.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables the store.
	Path string `yaml:"path,omitempty" toml:"path"`
}

// Enabled reports whether a database path is set.
func (s StoreConfig) Enabled() bool {
	return s.Path != ""
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is written after every batch. Empty disables the export.
	Textfile string `yaml:"textfile,omitempty" toml:"textfile"`
}

// Enabled reports whether a textfile path is set.
func (m MetricsConfig) Enabled() bool {
	return m.Textfile != ""
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnUnknown fires only when some log failed to parse or
	// had no recognizable status (default).
	WebhookTriggerOnUnknown WebhookTrigger = "on_unknown"
	// WebhookTriggerAlways fires after every batch.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending batch reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty" toml:"name"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url" toml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty" toml:"token"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_unknown" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty" toml:"trigger"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty" toml:"timeout"`
}
