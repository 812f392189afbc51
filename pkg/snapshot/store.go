// Package snapshot holds the latest result per data source and serves
// synchronous, clone-on-read queries to the UI layer. Writers are the
// per-source scheduler loops; the lock around a slot is held only for the
// final assignment of a finished result, never across a collector's
// external call.
package snapshot

import (
	"sync"
	"time"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Result is what a slot stores: either a populated value or a typed source
// error, never a mix. UpdatedAt is when the slot was last written; the zero
// time means the source has not been polled yet.
type Result[T any] struct {
	Value     T                       `json:"value"`
	Err       *collectors.SourceError `json:"error,omitempty"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Loading reports whether the result is still the pre-first-poll
// placeholder.
func (r Result[T]) Loading() bool {
	return r.Err != nil && r.Err.Kind == collectors.KindLoading
}

// slot pairs a result with its lock and clone function. A slot is written
// wholesale by exactly one scheduler loop and read by any number of
// concurrent facade calls.
type slot[T any] struct {
	mu    sync.RWMutex
	res   Result[T]
	clone func(T) T
}

func newSlot[T any](source collectors.Source, clone func(T) T) slot[T] {
	return slot[T]{
		res:   Result[T]{Err: collectors.Loading(source)},
		clone: clone,
	}
}

// set replaces the slot content. Exactly one of value/err is meaningful:
// a non-nil err stores the typed failure with a zero value.
func (s *slot[T]) set(value T, err error) {
	res := Result[T]{UpdatedAt: time.Now()}
	if err != nil {
		res.Err = collectors.AsSourceError(err)
	} else {
		res.Value = value
	}

	s.mu.Lock()
	s.res = res
	s.mu.Unlock()
}

// get returns an independent copy of the slot content.
func (s *slot[T]) get() Result[T] {
	s.mu.RLock()
	res := s.res
	s.mu.RUnlock()

	res.Value = s.clone(res.Value)
	return res
}

// Snapshot is the aggregate of one slot per source. It is created once at
// process start with a loading placeholder in every slot and mutated only
// through the per-source setters.
type Snapshot struct {
	memory     slot[collectors.MemoryUsage]
	cpu        slot[collectors.CPUUsage]
	containers slot[[]collectors.Container]
	playback   slot[collectors.Track]
	tickets    slot[[]collectors.Ticket]
	health     slot[[]collectors.HealthResult]
	issues     slot[[]collectors.TrackedIssue]
}

// New creates a snapshot with every slot in the loading state.
func New() *Snapshot {
	return &Snapshot{
		memory:     newSlot(collectors.SourceMemory, cloneMemory),
		cpu:        newSlot(collectors.SourceCPU, cloneCPU),
		containers: newSlot(collectors.SourceContainers, cloneContainers),
		playback:   newSlot(collectors.SourcePlayback, cloneTrack),
		tickets:    newSlot(collectors.SourceTickets, cloneTickets),
		health:     newSlot(collectors.SourceHealth, cloneHealth),
		issues:     newSlot(collectors.SourceIssues, cloneIssues),
	}
}

// Per-source setters, each used by exactly one scheduler loop.

func (s *Snapshot) SetMemory(v collectors.MemoryUsage, err error) { s.memory.set(v, err) }

func (s *Snapshot) SetCPU(v collectors.CPUUsage, err error) { s.cpu.set(v, err) }

func (s *Snapshot) SetContainers(v []collectors.Container, err error) { s.containers.set(v, err) }

func (s *Snapshot) SetPlayback(v collectors.Track, err error) { s.playback.set(v, err) }

func (s *Snapshot) SetTickets(v []collectors.Ticket, err error) { s.tickets.set(v, err) }

func (s *Snapshot) SetHealth(v []collectors.HealthResult, err error) { s.health.set(v, err) }

func (s *Snapshot) SetIssues(v []collectors.TrackedIssue, err error) { s.issues.set(v, err) }
