package healthcheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCollectReportsUpAndDown(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer broken.Close()

	c := New(Config{Endpoints: []Endpoint{
		{Name: "healthy", URL: healthy.URL},
		{Name: "broken", URL: broken.URL},
	}}, nil)

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}

	up := got[0]
	if !up.Up {
		t.Error("200 endpoint should be up")
	}
	if up.StatusCode == nil || *up.StatusCode != http.StatusOK {
		t.Errorf("status code = %v, want 200", up.StatusCode)
	}
	if up.Error != "" {
		t.Errorf("unexpected error message %q", up.Error)
	}

	down := got[1]
	if down.Up {
		t.Error("503 endpoint should be down")
	}
	if down.StatusCode == nil || *down.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status code = %v, want 503", down.StatusCode)
	}
}

func TestCollectUnreachableEndpoint(t *testing.T) {
	// Grab a port with no listener by closing a test server first.
	srv := httptest.NewServer(http.NotFoundHandler())
	deadURL := srv.URL
	srv.Close()

	c := New(Config{
		Endpoints: []Endpoint{{Name: "gone", URL: deadURL}},
		Timeout:   2 * time.Second,
	}, nil)

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}

	r := got[0]
	if r.Up {
		t.Error("unreachable endpoint should be down")
	}
	if r.StatusCode != nil {
		t.Errorf("status code = %v, want nil without a response", *r.StatusCode)
	}
	if r.Error == "" {
		t.Error("error message should be populated")
	}
	if r.Latency <= 0 {
		t.Error("latency should be measured even on failure")
	}
	if r.CheckedAt.IsZero() {
		t.Error("checked-at timestamp should be set")
	}
}

func TestCollectPreservesConfigurationOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	eps := []Endpoint{
		{Name: "first", URL: srv.URL},
		{Name: "second", URL: srv.URL},
		{Name: "third", URL: srv.URL},
	}
	c := New(Config{Endpoints: eps}, nil)

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	for i, ep := range eps {
		if got[i].Name != ep.Name {
			t.Errorf("result[%d] = %q, want %q", i, got[i].Name, ep.Name)
		}
	}
}

func TestNewFallsBackToDefaults(t *testing.T) {
	c := New(Config{}, nil)
	if len(c.endpoints) == 0 {
		t.Fatal("empty endpoint config should fall back to the stock set")
	}
	if c.client.Timeout != DefaultTimeout {
		t.Errorf("client timeout = %v, want %v", c.client.Timeout, DefaultTimeout)
	}
}
