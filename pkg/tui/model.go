// Package tui is a thin read-only front end over the snapshot facade. It
// refreshes on a fixed tick and renders whatever the facade currently
// holds; it never triggers a collection and never blocks on one.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
	"gitlab.com/tinyland/lab/deskpulse/pkg/snapshot"
)

// refreshInterval is how often the view re-reads the facade. It is a render
// cadence only; poll cadences live in the scheduler.
const refreshInterval = time.Second

// tickMsg drives the periodic facade re-read.
type tickMsg time.Time

// Model is the bubbletea model for the dashboard view.
type Model struct {
	facade  *snapshot.Facade
	spinner spinner.Model
	width   int

	memory     snapshot.Result[collectors.MemoryUsage]
	cpu        snapshot.Result[collectors.CPUUsage]
	containers snapshot.Result[[]collectors.Container]
	playback   snapshot.Result[collectors.Track]
	tickets    snapshot.Result[[]collectors.Ticket]
	health     snapshot.Result[[]collectors.HealthResult]
	issues     snapshot.Result[[]collectors.TrackedIssue]
}

// NewModel creates a dashboard model reading from the given facade.
func NewModel(facade *snapshot.Facade) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED"))

	m := Model{facade: facade, spinner: sp}
	m.refresh()
	return m
}

// Init starts the spinner and the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Update handles ticks, resizes, and quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.refresh()
		return m, tickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh pulls the current state of every slot from the facade.
func (m *Model) refresh() {
	m.memory = m.facade.MemoryUsage()
	m.cpu = m.facade.CPUUsage()
	m.containers = m.facade.Containers()
	m.playback = m.facade.Playback()
	m.tickets = m.facade.Tickets()
	m.health = m.facade.HealthChecks()
	m.issues = m.facade.TrackedIssues()
}

// tickCmd schedules the next facade re-read.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
