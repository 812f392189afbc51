package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
	"gitlab.com/tinyland/lab/deskpulse/pkg/snapshot"
)

// Panel color constants.
const (
	colorAccent = "#7C3AED"
	colorDim    = "#6B7280"
	colorGood   = "#4CAF50"
	colorBad    = "#F44336"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGood))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBad))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorDim)).
			Padding(0, 1)
)

// View renders all panels stacked vertically.
func (m Model) View() string {
	panels := []string{
		panel(m, "Memory", renderMemory, m.memory),
		panel(m, "CPU", renderCPU, m.cpu),
		panel(m, "Containers", renderContainers, m.containers),
		panel(m, "Now Playing", renderTrack, m.playback),
		panel(m, "Tickets", renderTickets, m.tickets),
		panel(m, "Health", renderHealth, m.health),
		panel(m, "Issues", renderIssues, m.issues),
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...) + "\n" + dimStyle.Render("q to quit")
}

// panel renders a titled box around a slot's current state: spinner while
// loading, the error message on failure, the rendered value otherwise.
func panel[T any](m Model, title string, render func(T) string, res snapshot.Result[T]) string {
	var body string
	switch {
	case res.Loading():
		body = m.spinner.View() + " " + dimStyle.Render(res.Err.Message)
	case !res.OK():
		body = badStyle.Render(res.Err.Message)
	default:
		body = render(res.Value)
	}
	return panelStyle.Render(titleStyle.Render(title) + "\n" + body)
}

func renderMemory(v collectors.MemoryUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s / %s (%.1f%%)", humanize.IBytes(v.Used), humanize.IBytes(v.Total), v.Percentage)
	for _, p := range v.TopProcesses {
		fmt.Fprintf(&b, "\n  %-24s %8s %5.1f%%", p.Name, humanize.IBytes(p.Bytes), p.Percentage)
	}
	return b.String()
}

func renderCPU(v collectors.CPUUsage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%.1f%% over %d cores", v.Overall, len(v.Cores))
	for _, p := range v.TopProcesses {
		fmt.Fprintf(&b, "\n  %-24s %5.1f%%", p.Name, p.Percentage)
	}
	return b.String()
}

func renderContainers(v []collectors.Container) string {
	if len(v) == 0 {
		return dimStyle.Render("no running containers")
	}
	lines := make([]string, 0, len(v))
	for _, c := range v {
		line := fmt.Sprintf("%-28s %-20s %s", c.Name, c.Image, c.Status)
		if c.Ports != "" {
			line += dimStyle.Render("  [" + c.Ports + "]")
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderTrack(v collectors.Track) string {
	state := dimStyle.Render("paused")
	if v.Playing {
		state = goodStyle.Render("playing")
	}
	return fmt.Sprintf("%s — %s (%s) %s", v.Name, v.Artist, v.Album, state)
}

func renderTickets(v []collectors.Ticket) string {
	lines := make([]string, 0, len(v))
	for _, t := range v {
		lines = append(lines, fmt.Sprintf("%-10s %-40s %-14s %s", t.Key, truncate(t.Summary, 40), t.Status, dimStyle.Render(t.Assignee)))
	}
	return strings.Join(lines, "\n")
}

func renderHealth(v []collectors.HealthResult) string {
	lines := make([]string, 0, len(v))
	for _, h := range v {
		mark := badStyle.Render("down")
		detail := h.Error
		if h.Up {
			mark = goodStyle.Render("up")
			detail = fmt.Sprintf("%d, %s", *h.StatusCode, h.Latency.Round(time.Millisecond))
		}
		lines = append(lines, fmt.Sprintf("%-24s %s  %s", h.Name, mark, dimStyle.Render(detail)))
	}
	return strings.Join(lines, "\n")
}

func renderIssues(v []collectors.TrackedIssue) string {
	if len(v) == 0 {
		return goodStyle.Render("no unresolved issues")
	}
	lines := make([]string, 0, len(v))
	for _, i := range v {
		flag := ""
		if i.Bot {
			flag = dimStyle.Render(" [bot]")
		}
		lines = append(lines, fmt.Sprintf("%-48s %4s  %d events, %d users%s", truncate(i.Title, 48), i.Age, i.Events, i.Users, flag))
	}
	return strings.Join(lines, "\n")
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
