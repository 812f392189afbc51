// Package collectors defines the value models and error taxonomy shared by
// the deskpulse data sources. Each source (hostmem, hostcpu, docker,
// playback, jira, healthcheck, sentry) lives in a sub-package and produces
// one of the typed values below, or a *SourceError describing why it could
// not. Scheduling and storage are handled elsewhere (pkg/sched,
// pkg/snapshot); collectors know nothing about either.
package collectors

import "time"

// Source identifies one data source. There is exactly one snapshot slot per
// source.
type Source string

const (
	SourceMemory     Source = "memory"
	SourceCPU        Source = "cpu"
	SourceContainers Source = "containers"
	SourcePlayback   Source = "playback"
	SourceTickets    Source = "tickets"
	SourceHealth     Source = "health"
	SourceIssues     Source = "issues"
)

// ========== Host memory ==========

// ProcessMemory is one entry in the top-N memory consumers list.
type ProcessMemory struct {
	// Name is the process executable name.
	Name string `json:"name"`

	// Bytes is the resident set size.
	Bytes uint64 `json:"bytes"`

	// Percentage is Bytes relative to total physical memory (0-100).
	Percentage float64 `json:"percentage"`
}

// MemoryUsage is the host memory snapshot value.
type MemoryUsage struct {
	Used       uint64  `json:"used"`
	Total      uint64  `json:"total"`
	Percentage float64 `json:"percentage"`

	// TopProcesses is sorted strictly descending by Bytes and truncated
	// to the configured cap.
	TopProcesses []ProcessMemory `json:"top_processes"`
}

// ========== Host CPU ==========

// ProcessCPU is one entry in the top-N CPU consumers list.
type ProcessCPU struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// CPUUsage is the host CPU snapshot value. Overall is the arithmetic mean
// of the per-core percentages.
type CPUUsage struct {
	Overall float64   `json:"overall"`
	Cores   []float64 `json:"cores"`

	// TopProcesses is sorted strictly descending by Percentage and
	// truncated to the configured cap.
	TopProcesses []ProcessCPU `json:"top_processes"`
}

// ========== Containers ==========

// Container describes one running container as reported by the runtime CLI.
type Container struct {
	ID string `json:"id"`

	// Name is the display name: "<folder> - <service>" for compose
	// containers, the raw container name otherwise.
	Name string `json:"name"`

	Image  string `json:"image"`
	Status string `json:"status"`

	// Ports is the reformatted port list, e.g. "80, 443".
	Ports string `json:"ports"`

	Uptime string `json:"uptime"`
}

// ========== Playback ==========

// Track is the current media playback state.
type Track struct {
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	ArtworkURL string `json:"artwork_url"`
	Playing    bool   `json:"playing"`
}

// ========== Tickets ==========

// Ticket is one issue-tracker ticket from the configured search.
type Ticket struct {
	Key     string `json:"key"`
	Summary string `json:"summary"`
	Status  string `json:"status"`

	// Assignee is never empty; a null assignee is normalized to
	// "Unassigned".
	Assignee string `json:"assignee"`

	URL string `json:"url"`
}

// ========== Health checks ==========

// HealthResult is the outcome of probing one endpoint. A failed probe still
// produces a fully populated result: Up false, no status code, measured
// latency, and a non-empty Error.
type HealthResult struct {
	Name       string        `json:"name"`
	URL        string        `json:"url"`
	Up         bool          `json:"up"`
	StatusCode *int          `json:"status_code,omitempty"`
	Latency    time.Duration `json:"latency"`
	CheckedAt  time.Time     `json:"checked_at"`
	Error      string        `json:"error,omitempty"`
}

// ========== Tracked issues ==========

// TrackedIssue is one unresolved error-tracker issue.
type TrackedIssue struct {
	Title     string `json:"title"`
	LastSeen  string `json:"last_seen"`
	FirstSeen string `json:"first_seen"`

	// Age is derived from FirstSeen using the largest nonzero unit only
	// ("2d", "3h", "15m", "40s"), never a combined string.
	Age string `json:"age"`

	Events uint64 `json:"events"`
	Users  uint64 `json:"users"`

	// Bot reflects the tag heuristic on the raw response and nothing
	// more; it is not real bot detection.
	Bot bool `json:"bot"`

	URL string `json:"url"`
}
