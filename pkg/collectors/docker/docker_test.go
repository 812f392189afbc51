package docker

import (
	"context"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// fakeRunner serves canned output keyed by the first argument after the
// binary name ("ps" or "inspect").
type fakeRunner struct {
	psOut      string
	psErr      error
	inspectOut map[string]string
}

func (f *fakeRunner) Output(_ context.Context, _ string, args ...string) ([]byte, error) {
	if len(args) > 0 && args[0] == "ps" {
		if f.psErr != nil {
			return nil, f.psErr
		}
		return []byte(f.psOut), nil
	}
	if len(args) > 0 && args[0] == "inspect" {
		id := args[len(args)-1]
		return []byte(f.inspectOut[id]), nil
	}
	return nil, collectors.Errf(collectors.KindProcessFailure, "unexpected args %v", args)
}

func TestCollectParsesContainers(t *testing.T) {
	runner := &fakeRunner{
		psOut: "abc123|web-1|nginx:1.27|Up 2 hours|0.0.0.0:80->80/tcp, 443/tcp|2 hours\n" +
			"def456|standalone|redis:7|Up 5 minutes||5 minutes\n",
		inspectOut: map[string]string{
			"abc123": `{"com.docker.compose.project":"myapp","com.docker.compose.service":"web","com.docker.compose.project.working_dir":"/home/flo/projects/myapp"}`,
			"def456": `null`,
		},
	}
	c := New(Config{}, runner)

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(got))
	}

	if got[0].Name != "myapp - web" {
		t.Errorf("compose container name = %q, want %q", got[0].Name, "myapp - web")
	}
	if got[0].Ports != "80, 443" {
		t.Errorf("ports = %q, want %q", got[0].Ports, "80, 443")
	}
	if got[0].Image != "nginx:1.27" {
		t.Errorf("image = %q, want %q", got[0].Image, "nginx:1.27")
	}

	if got[1].Name != "standalone" {
		t.Errorf("non-compose container name = %q, want raw name", got[1].Name)
	}
	if got[1].Ports != "" {
		t.Errorf("ports = %q, want empty", got[1].Ports)
	}
}

func TestCollectCLIFailure(t *testing.T) {
	runner := &fakeRunner{
		psErr: collectors.Errf(collectors.KindProcessFailure, "docker: Cannot connect to the Docker daemon"),
	}
	c := New(Config{}, runner)

	_, err := c.Collect(context.Background())
	if err == nil {
		t.Fatal("expected error when the CLI fails")
	}
	se := collectors.AsSourceError(err)
	if se.Kind != collectors.KindProcessFailure {
		t.Errorf("error kind = %q, want %q", se.Kind, collectors.KindProcessFailure)
	}
	if !strings.Contains(se.Message, "daemon") {
		t.Errorf("error message %q should carry the CLI stderr", se.Message)
	}
}

func TestCollectEmptyListing(t *testing.T) {
	c := New(Config{}, &fakeRunner{psOut: ""})

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no containers, got %d", len(got))
	}
}

func TestComposeDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   string
		ok     bool
	}{
		{
			name: "working dir wins over project",
			labels: map[string]string{
				labelProject:    "foo",
				labelService:    "db",
				labelWorkingDir: "/home/x/bar",
			},
			want: "bar - db",
			ok:   true,
		},
		{
			name: "trailing slash in working dir",
			labels: map[string]string{
				labelProject:    "foo",
				labelService:    "web",
				labelWorkingDir: "/srv/app/",
			},
			want: "app - web",
			ok:   true,
		},
		{
			name: "project fallback without working dir",
			labels: map[string]string{
				labelProject: "foo",
				labelService: "cache",
			},
			want: "foo - cache",
			ok:   true,
		},
		{
			name:   "missing service label",
			labels: map[string]string{labelProject: "foo"},
			ok:     false,
		},
		{
			name:   "not compose managed",
			labels: map[string]string{"maintainer": "someone"},
			ok:     false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComposeDisplayName(tt.labels)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPorts(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0.0.0.0:80->80/tcp, 443/tcp", "80, 443"},
		{"0.0.0.0:8080->80/tcp", "8080"},
		{":::443->443/tcp", "443"},
		{"5432/tcp", "5432"},
		{"", ""},
		{"garbage", ""},
	}
	for _, tt := range tests {
		if got := FormatPorts(tt.raw); got != tt.want {
			t.Errorf("FormatPorts(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
