// Package sentry collects unresolved issues from the error tracker's REST
// API. Issue age is bucketed to the largest nonzero unit, and a narrow tag
// heuristic marks issues that look like automated traffic.
package sentry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Default configuration values. The issues URL carries the fixed
// organization, project, and filter parameters.
const (
	DefaultIssuesURL = "https://sentry.io/api/0/organizations/zw-systems-gmbh/issues/?project=4509966802485248&statsPeriod=90d&sort=date&limit=15&query=is:unresolved"
	DefaultTimeout   = 12 * time.Second
)

// Config controls the issue collector. Token is required at collect time.
type Config struct {
	Token     string
	IssuesURL string
	Timeout   time.Duration
}

// Collector fetches unresolved issues from the error tracker.
type Collector struct {
	cfg    Config
	client *http.Client

	// now is injectable for deterministic age tests.
	now func() time.Time
}

// New creates an issue collector. A nil client builds one with the
// configured timeout.
func New(cfg Config, client *http.Client) *Collector {
	if cfg.IssuesURL == "" {
		cfg.IssuesURL = DefaultIssuesURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Collector{cfg: cfg, client: client, now: time.Now}
}

// apiIssue is the subset of the issues payload we consume.
type apiIssue struct {
	Title    string `json:"title"`
	Metadata struct {
		Title string `json:"title"`
	} `json:"metadata"`
	LastSeen  string    `json:"lastSeen"`
	FirstSeen string    `json:"firstSeen"`
	Count     flexCount `json:"count"`
	UserCount uint64    `json:"userCount"`
	Tags      []struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	} `json:"tags"`
	Permalink string `json:"permalink"`
}

// Collect fetches and maps the unresolved issue list.
func (c *Collector) Collect(ctx context.Context) ([]collectors.TrackedIssue, error) {
	if c.cfg.Token == "" {
		return nil, collectors.Errf(collectors.KindConfigMissing, "error tracker API token is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.IssuesURL, nil)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "build issues request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "fetch tracked issues: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, collectors.Errf(collectors.KindBadResponse, "error tracker API error (%s): %s", resp.Status, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "read issues response: %v", err)
	}

	var issues []apiIssue
	if err := json.Unmarshal(body, &issues); err != nil {
		return nil, collectors.Errf(collectors.KindBadResponse, "parse issues response: expected array: %v", err)
	}

	now := c.now()
	mapped := make([]collectors.TrackedIssue, 0, len(issues))
	for _, issue := range issues {
		title := issue.Title
		if title == "" {
			title = issue.Metadata.Title
		}
		if title == "" {
			title = "Unknown issue"
		}

		firstSeen := issue.FirstSeen
		if firstSeen == "" {
			firstSeen = "n/a"
		}
		lastSeen := issue.LastSeen
		if lastSeen == "" {
			lastSeen = "n/a"
		}

		mapped = append(mapped, collectors.TrackedIssue{
			Title:     title,
			LastSeen:  lastSeen,
			FirstSeen: firstSeen,
			Age:       AgeSince(firstSeen, now),
			Events:    uint64(issue.Count),
			Users:     issue.UserCount,
			Bot:       looksAutomated(issue),
			URL:       issue.Permalink,
		})
	}
	return mapped, nil
}

// looksAutomated applies the tag heuristic: a "browser" tag whose value
// contains "Python". It flags scripted clients reporting through a Python
// SDK; nothing more should be read into it.
func looksAutomated(issue apiIssue) bool {
	for _, tag := range issue.Tags {
		if tag.Key == "browser" && strings.Contains(tag.Value, "Python") {
			return true
		}
	}
	return false
}

// AgeSince renders the elapsed time since an RFC 3339 timestamp using the
// largest nonzero unit only: days, else hours, else minutes, else seconds.
// Unparseable input yields "n/a".
func AgeSince(firstSeen string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, firstSeen)
	if err != nil {
		return "n/a"
	}

	delta := now.Sub(t)
	if days := int64(delta.Hours() / 24); days > 0 {
		return strconv.FormatInt(days, 10) + "d"
	}
	if hours := int64(delta.Hours()); hours > 0 {
		return strconv.FormatInt(hours, 10) + "h"
	}
	if minutes := int64(delta.Minutes()); minutes > 0 {
		return strconv.FormatInt(minutes, 10) + "m"
	}
	seconds := int64(delta.Seconds())
	if seconds < 0 {
		seconds = 0
	}
	return strconv.FormatInt(seconds, 10) + "s"
}

// flexCount decodes an event count that the API serves as either a JSON
// string or a number.
type flexCount uint64

func (f *flexCount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		*f = 0
		return nil // tolerate odd shapes; the count is cosmetic
	}
	*f = flexCount(n)
	return nil
}
