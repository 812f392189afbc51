// Package jira collects tickets from a Jira Cloud REST search. Before
// searching it performs a lightweight authenticated "myself" pre-check so
// rejected credentials surface as an authentication failure rather than a
// generic query problem.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://zw-systems.atlassian.net"
	DefaultJQL        = "updated >= -3650d ORDER BY updated DESC"
	DefaultMaxResults = 15
	DefaultTimeout    = 12 * time.Second
)

// Config controls the ticket collector. Token and Email are required at
// collect time; their absence is a source-local configuration error, never
// a startup failure.
type Config struct {
	Token      string
	Email      string
	BaseURL    string
	JQL        string
	MaxResults int
	Timeout    time.Duration
}

// Collector fetches tickets from the tracker's REST API.
type Collector struct {
	cfg    Config
	client *http.Client
}

// New creates a ticket collector. Zero-value optional fields get defaults;
// a nil client builds one with the configured timeout.
func New(cfg Config, client *http.Client) *Collector {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.JQL == "" {
		cfg.JQL = DefaultJQL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Collector{cfg: cfg, client: client}
}

// searchResponse is the subset of the search payload we consume.
type searchResponse struct {
	Issues []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
			Status  struct {
				Name string `json:"name"`
			} `json:"status"`
			Assignee *struct {
				DisplayName string `json:"displayName"`
			} `json:"assignee"`
		} `json:"fields"`
	} `json:"issues"`
}

// Collect validates credentials, runs the configured JQL search, and maps
// the result. A zero-item result set is reported as an error: with the
// standing query it almost always means the JQL or the permissions are
// wrong, not that there is genuinely nothing to show.
func (c *Collector) Collect(ctx context.Context) ([]collectors.Ticket, error) {
	if c.cfg.Token == "" {
		return nil, collectors.Errf(collectors.KindConfigMissing, "ticket tracker API token is not set")
	}
	if c.cfg.Email == "" {
		return nil, collectors.Errf(collectors.KindConfigMissing, "ticket tracker account email is not set")
	}

	if err := c.checkAuth(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("jql", c.cfg.JQL)
	query.Set("maxResults", fmt.Sprint(c.cfg.MaxResults))
	query.Set("fields", "summary,status,assignee")
	searchURL := c.cfg.BaseURL + "/rest/api/3/search/jql?" + query.Encode()

	body, err := c.get(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, collectors.Errf(collectors.KindBadResponse, "parse ticket search response: %v", err)
	}

	if len(resp.Issues) == 0 {
		return nil, collectors.Errf(collectors.KindEmptyResult,
			"ticket search returned 0 results for JQL %q; verify the query and tracker permissions", c.cfg.JQL)
	}

	tickets := make([]collectors.Ticket, 0, len(resp.Issues))
	for _, issue := range resp.Issues {
		status := issue.Fields.Status.Name
		if status == "" {
			status = "Unknown"
		}
		assignee := "Unassigned"
		if issue.Fields.Assignee != nil && issue.Fields.Assignee.DisplayName != "" {
			assignee = issue.Fields.Assignee.DisplayName
		}
		tickets = append(tickets, collectors.Ticket{
			Key:      issue.Key,
			Summary:  issue.Fields.Summary,
			Status:   status,
			Assignee: assignee,
			URL:      c.cfg.BaseURL + "/browse/" + issue.Key,
		})
	}
	return tickets, nil
}

// checkAuth calls the authenticated "myself" endpoint. A non-success status
// here is a credential problem, reported distinctly from network and query
// errors.
func (c *Collector) checkAuth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/rest/api/3/myself", nil)
	if err != nil {
		return collectors.Errf(collectors.KindNetwork, "build auth check request: %v", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return collectors.Errf(collectors.KindNetwork, "validate tracker credentials: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return collectors.Errf(collectors.KindAuth,
			"tracker rejected credentials (%s); check the account email and API token. %s", resp.Status, body)
	}
	return nil
}

// get performs an authenticated GET and returns the body of a successful
// response.
func (c *Collector) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "build request: %v", err)
	}
	req.SetBasicAuth(c.cfg.Email, c.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "fetch tickets: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, collectors.Errf(collectors.KindBadResponse, "tracker API error (%s): %s", resp.Status, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, collectors.Errf(collectors.KindNetwork, "read ticket response: %v", err)
	}
	return body, nil
}
