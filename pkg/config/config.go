// Package config provides TOML-based configuration for deskpulse: logging,
// per-source poll timings, the top-N process cap, and the credentials and
// endpoints of the remote sources. Credentials may also arrive through
// environment variables; a missing credential is left empty here and
// surfaces as a source-local error at collect time, never at startup.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration document.
type Config struct {
	General GeneralConfig `toml:"general"`
	Sources SourcesConfig `toml:"sources"`
	Jira    JiraConfig    `toml:"jira"`
	Sentry  SentryConfig  `toml:"sentry"`
	Health  HealthConfig  `toml:"health"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// LogFile receives a copy of the log stream alongside stderr.
	LogFile string `toml:"log_file"`

	// TopProcesses caps the top-N process lists of the host collectors.
	TopProcesses int `toml:"top_processes"`
}

// Timing is the per-source poll cadence. Stagger delays the first poll;
// Interval is the fixed sleep between polls. Neither depends on any other
// source's values.
type Timing struct {
	Stagger  Duration `toml:"stagger"`
	Interval Duration `toml:"interval"`
}

// SourcesConfig holds one Timing per source.
type SourcesConfig struct {
	Memory     Timing `toml:"memory"`
	CPU        Timing `toml:"cpu"`
	Containers Timing `toml:"containers"`
	Playback   Timing `toml:"playback"`
	Tickets    Timing `toml:"tickets"`
	Health     Timing `toml:"health"`
	Issues     Timing `toml:"issues"`
}

// JiraConfig holds the ticket tracker settings. Token and Email have no
// defaults; BaseURL and JQL do.
type JiraConfig struct {
	Token      string `toml:"token"`
	Email      string `toml:"email"`
	BaseURL    string `toml:"base_url"`
	JQL        string `toml:"jql"`
	MaxResults int    `toml:"max_results"`
}

// SentryConfig holds the error tracker settings.
type SentryConfig struct {
	Token     string `toml:"token"`
	IssuesURL string `toml:"issues_url"`
}

// EndpointConfig is one monitored health-check URL.
type EndpointConfig struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// HealthConfig holds the health-check settings. An empty endpoint list
// falls back to the collector's stock set.
type HealthConfig struct {
	Timeout   Duration         `toml:"timeout"`
	Endpoints []EndpointConfig `toml:"endpoints"`
}

// DefaultConfig returns the stock configuration: fast host metrics every
// two seconds, slower remote sources tens of seconds apart, staggered
// first polls so startup does not fire every source at once.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:     "info",
			TopProcesses: 3,
		},
		Sources: SourcesConfig{
			Memory:     Timing{Stagger: Duration{100 * time.Millisecond}, Interval: Duration{2 * time.Second}},
			CPU:        Timing{Stagger: Duration{450 * time.Millisecond}, Interval: Duration{2 * time.Second}},
			Containers: Timing{Stagger: Duration{850 * time.Millisecond}, Interval: Duration{5 * time.Second}},
			Playback:   Timing{Stagger: Duration{1250 * time.Millisecond}, Interval: Duration{3 * time.Second}},
			Tickets:    Timing{Stagger: Duration{1700 * time.Millisecond}, Interval: Duration{30 * time.Second}},
			Health:     Timing{Stagger: Duration{2100 * time.Millisecond}, Interval: Duration{20 * time.Second}},
			Issues:     Timing{Stagger: Duration{2500 * time.Millisecond}, Interval: Duration{30 * time.Second}},
		},
		Jira: JiraConfig{
			MaxResults: 15,
		},
		Health: HealthConfig{
			Timeout: Duration{8 * time.Second},
		},
	}
}

// Validate checks structural sanity. Credentials are deliberately not
// validated here.
func (c *Config) Validate() error {
	if c.General.TopProcesses <= 0 {
		return fmt.Errorf("general.top_processes must be positive, got %d", c.General.TopProcesses)
	}
	for _, s := range []struct {
		name   string
		timing Timing
	}{
		{"memory", c.Sources.Memory},
		{"cpu", c.Sources.CPU},
		{"containers", c.Sources.Containers},
		{"playback", c.Sources.Playback},
		{"tickets", c.Sources.Tickets},
		{"health", c.Sources.Health},
		{"issues", c.Sources.Issues},
	} {
		if s.timing.Interval.Duration <= 0 {
			return fmt.Errorf("sources.%s.interval must be positive", s.name)
		}
	}
	for i, ep := range c.Health.Endpoints {
		if ep.Name == "" || ep.URL == "" {
			return fmt.Errorf("health.endpoints[%d] needs both name and url", i)
		}
	}
	return nil
}
