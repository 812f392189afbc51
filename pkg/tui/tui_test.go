package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
	"gitlab.com/tinyland/lab/deskpulse/pkg/snapshot"
)

func TestViewShowsLoadingPlaceholders(t *testing.T) {
	m := NewModel(snapshot.NewFacade(snapshot.New()))

	out := m.View()
	if !strings.Contains(out, "loading memory data") {
		t.Error("view should show the memory loading placeholder")
	}
	if !strings.Contains(out, "loading tickets data") {
		t.Error("view should show the tickets loading placeholder")
	}
}

func TestViewRendersStoredValues(t *testing.T) {
	snap := snapshot.New()
	snap.SetPlayback(collectors.Track{Name: "Weird Fishes", Artist: "Radiohead", Album: "In Rainbows", Playing: true}, nil)
	snap.SetContainers([]collectors.Container{{Name: "myapp - web", Image: "nginx:1.27", Status: "Up 2 hours", Ports: "80, 443"}}, nil)
	snap.SetTickets(nil, collectors.Errf(collectors.KindAuth, "credentials rejected"))

	m := NewModel(snapshot.NewFacade(snap))
	out := m.View()

	if !strings.Contains(out, "Weird Fishes") {
		t.Error("view should show the current track")
	}
	if !strings.Contains(out, "myapp - web") {
		t.Error("view should show the container display name")
	}
	if !strings.Contains(out, "credentials rejected") {
		t.Error("view should show the tickets error message")
	}
}

func TestTickRefreshesFromFacade(t *testing.T) {
	snap := snapshot.New()
	m := NewModel(snapshot.NewFacade(snap))
	if !strings.Contains(m.View(), "loading cpu data") {
		t.Fatal("precondition: cpu slot should start loading")
	}

	snap.SetCPU(collectors.CPUUsage{Overall: 31.5, Cores: []float64{30, 33}}, nil)

	updated, cmd := m.Update(tickMsg{})
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	out := updated.(Model).View()
	if !strings.Contains(out, "31.5") {
		t.Error("view should show the freshly stored cpu value after a tick")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(snapshot.NewFacade(snapshot.New()))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should produce a tea.QuitMsg")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly eighteen!!", 18, "exactly eighteen!!"},
		{"a very long summary indeed", 10, "a very lo…"},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
