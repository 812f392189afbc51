// Package healthcheck probes a fixed set of named HTTP endpoints. Every
// probe produces a fully populated result: an unreachable endpoint yields
// up=false with a measured latency and an error message, never an absent
// entry.
package healthcheck

import (
	"context"
	"net/http"
	"time"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// DefaultTimeout bounds each individual probe.
const DefaultTimeout = 8 * time.Second

// Endpoint is one monitored URL.
type Endpoint struct {
	Name string
	URL  string
}

// DefaultEndpoints returns the stock endpoint set used when none are
// configured.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Name: "Trisolaris", URL: "https://app.florianraith.com/up"},
		{Name: "Spliit", URL: "https://spliit.florianraith.com/api/health"},
		{Name: "Partnerportal (Dev)", URL: "https://dev-portal.zewotherm.com/up"},
		{Name: "Partnerportal (Prod)", URL: "https://portal.zewotherm.com/up"},
	}
}

// Config controls the health collector.
type Config struct {
	// Endpoints to probe. Empty uses DefaultEndpoints.
	Endpoints []Endpoint

	// Timeout bounds each probe. Zero uses DefaultTimeout.
	Timeout time.Duration
}

// Collector probes the configured endpoints sequentially.
type Collector struct {
	endpoints []Endpoint
	client    *http.Client
}

// New creates a health collector. A nil client builds one with the
// configured timeout.
func New(cfg Config, client *http.Client) *Collector {
	endpoints := cfg.Endpoints
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Collector{endpoints: endpoints, client: client}
}

// Collect probes every endpoint and returns one result per endpoint, in
// configuration order. Probe failures are recorded in the result, not
// returned as a collection error.
func (c *Collector) Collect(ctx context.Context) ([]collectors.HealthResult, error) {
	results := make([]collectors.HealthResult, 0, len(c.endpoints))
	for _, ep := range c.endpoints {
		results = append(results, c.probe(ctx, ep))
	}
	return results, nil
}

// probe checks one endpoint, recording the wall-clock start and the elapsed
// time regardless of outcome.
func (c *Collector) probe(ctx context.Context, ep Endpoint) collectors.HealthResult {
	result := collectors.HealthResult{
		Name:      ep.Name,
		URL:       ep.URL,
		CheckedAt: time.Now(),
	}
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep.URL, nil)
	if err != nil {
		result.Latency = time.Since(start)
		result.Error = err.Error()
		return result
	}

	resp, err := c.client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	result.StatusCode = &code
	result.Up = code >= 200 && code < 300
	return result
}
