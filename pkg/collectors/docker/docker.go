// Package docker lists running containers by invoking the container runtime
// CLI. Compose-managed containers get a "<folder> - <service>" display name
// derived from their labels; raw port mappings are reformatted down to the
// host ports.
package docker

import (
	"context"
	"encoding/json"
	"os/exec"
	"strings"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Compose label keys consulted for display naming.
const (
	labelProject    = "com.docker.compose.project"
	labelService    = "com.docker.compose.service"
	labelWorkingDir = "com.docker.compose.project.working_dir"
)

// psFormat keeps the listing to a single pipe-delimited line per container.
const psFormat = "{{.ID}}|{{.Names}}|{{.Image}}|{{.Status}}|{{.Ports}}|{{.RunningFor}}"

// Runner abstracts CLI execution so tests can inject canned output. The
// production implementation is ExecRunner.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

// Output runs the command and returns its stdout. A nonzero exit includes
// the captured stderr in the returned error.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return nil, collectors.Errf(collectors.KindProcessFailure, "%s: %s", name, strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, collectors.Errf(collectors.KindProcessFailure, "%s: %v", name, err)
	}
	return out, nil
}

// Config controls the container collector.
type Config struct {
	// Binary is the runtime CLI name. Empty means "docker".
	Binary string
}

// Collector lists running containers via the runtime CLI.
type Collector struct {
	binary string
	runner Runner
}

// New creates a container collector. A nil runner uses ExecRunner.
func New(cfg Config, runner Runner) *Collector {
	binary := cfg.Binary
	if binary == "" {
		binary = "docker"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Collector{binary: binary, runner: runner}
}

// Collect lists running containers and resolves their display names and
// port strings.
func (c *Collector) Collect(ctx context.Context) ([]collectors.Container, error) {
	out, err := c.runner.Output(ctx, c.binary, "ps", "--format", psFormat)
	if err != nil {
		return nil, err
	}

	var containers []collectors.Container
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		ct := collectors.Container{
			ID:     field(parts, 0),
			Name:   field(parts, 1),
			Image:  field(parts, 2),
			Status: field(parts, 3),
			Ports:  FormatPorts(field(parts, 4)),
			Uptime: field(parts, 5),
		}
		if name, ok := c.composeName(ctx, ct.ID); ok {
			ct.Name = name
		}
		containers = append(containers, ct)
	}
	return containers, nil
}

// composeName inspects the container's labels and, when both a compose
// project and service label are present, returns "<folder> - <service>".
// Folder is the last path segment of the working-dir label when set, the
// raw project label otherwise. Inspection failures fall back to the raw
// container name.
func (c *Collector) composeName(ctx context.Context, id string) (string, bool) {
	out, err := c.runner.Output(ctx, c.binary, "inspect", "--format", "{{json .Config.Labels}}", id)
	if err != nil {
		return "", false
	}

	var labels map[string]string
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &labels); err != nil {
		return "", false
	}
	return ComposeDisplayName(labels)
}

// ComposeDisplayName derives the compose display name from a label map.
// Returns false when the container is not compose-managed.
func ComposeDisplayName(labels map[string]string) (string, bool) {
	project := labels[labelProject]
	service := labels[labelService]
	if project == "" || service == "" {
		return "", false
	}

	folder := project
	if dir := labels[labelWorkingDir]; dir != "" {
		trimmed := strings.TrimRight(dir, "/")
		if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if trimmed != "" {
			folder = trimmed
		}
	}
	return folder + " - " + service, true
}

// FormatPorts reduces a raw runtime port string to the externally visible
// ports. Entries like "0.0.0.0:80->80/tcp" keep only the host port;
// entries like "443/tcp" keep the port; anything else is dropped.
func FormatPorts(raw string) string {
	if raw == "" {
		return ""
	}

	var ports []string
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if arrow := strings.Index(entry, "->"); arrow >= 0 {
			host := entry[:arrow]
			if colon := strings.LastIndex(host, ":"); colon >= 0 {
				ports = append(ports, host[colon+1:])
			}
			continue
		}
		if slash := strings.Index(entry, "/"); slash >= 0 {
			ports = append(ports, entry[:slash])
		}
	}
	return strings.Join(ports, ", ")
}

// field returns parts[i] or "" when the line had fewer columns.
func field(parts []string, i int) string {
	if i < len(parts) {
		return parts[i]
	}
	return ""
}
