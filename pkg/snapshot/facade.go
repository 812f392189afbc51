package snapshot

import (
	"fmt"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Facade is the read-only surface consumed by the rendering layer. Every
// operation returns an immediate clone of the latest stored value; none of
// them triggers a fresh collection or waits on an in-flight refresh.
type Facade struct {
	snap *Snapshot
}

// NewFacade wraps a snapshot in its read-only facade.
func NewFacade(snap *Snapshot) *Facade {
	return &Facade{snap: snap}
}

// MemoryUsage returns the latest host memory result.
func (f *Facade) MemoryUsage() Result[collectors.MemoryUsage] {
	return f.snap.memory.get()
}

// CPUUsage returns the latest host CPU result.
func (f *Facade) CPUUsage() Result[collectors.CPUUsage] {
	return f.snap.cpu.get()
}

// Containers returns the latest container listing.
func (f *Facade) Containers() Result[[]collectors.Container] {
	return f.snap.containers.get()
}

// Playback returns the latest media playback state.
func (f *Facade) Playback() Result[collectors.Track] {
	return f.snap.playback.get()
}

// Tickets returns the latest ticket search result.
func (f *Facade) Tickets() Result[[]collectors.Ticket] {
	return f.snap.tickets.get()
}

// HealthChecks returns the latest endpoint probe results.
func (f *Facade) HealthChecks() Result[[]collectors.HealthResult] {
	return f.snap.health.get()
}

// TrackedIssues returns the latest error-tracker issue list.
func (f *Facade) TrackedIssues() Result[[]collectors.TrackedIssue] {
	return f.snap.issues.get()
}

// Greet is a trivial echo, unrelated to polling. It exists for front-end
// connectivity smoke tests.
func (f *Facade) Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from the deskpulse backend!", name)
}
