// Package sched runs one perpetual loop per data source. Each loop waits an
// initial stagger, then alternates between running its task and sleeping a
// fixed interval. Loops are fully independent: a slow or failing task never
// delays any other loop's cadence, and there is no retry or backoff beyond
// the next regular tick.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is one scheduled loop. Run performs a single collection cycle and
// stores its outcome; it must never panic the loop by returning — any
// failure handling happens inside Run.
type Task struct {
	// Name identifies the loop in logs.
	Name string

	// Stagger delays the first run so the loops do not all fire at once
	// on startup.
	Stagger time.Duration

	// Interval is the fixed sleep between the end of one run and the
	// start of the next.
	Interval time.Duration

	// Run executes one cycle. The context is cancelled on shutdown.
	Run func(ctx context.Context)
}

// Scheduler owns the loop goroutines. Start spawns one goroutine per task;
// Stop cancels them and waits for all to exit, giving tests a deterministic
// lifetime handle instead of fire-and-forget goroutines.
type Scheduler struct {
	logger *slog.Logger

	mu      sync.Mutex
	tasks   []Task
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New creates an empty scheduler. A nil logger discards log output.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scheduler{logger: logger}
}

// Add registers a task. It returns an error after Start has been called or
// when the task is incomplete.
func (s *Scheduler) Add(t Task) error {
	if t.Name == "" || t.Run == nil || t.Interval <= 0 {
		return fmt.Errorf("sched: task needs a name, a run function, and a positive interval")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("sched: cannot add task %q after Start", t.Name)
	}
	s.tasks = append(s.tasks, t)
	return nil
}

// Tasks returns a copy of the registered tasks.
func (s *Scheduler) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Start spawns one loop goroutine per registered task. The loops run until
// ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return fmt.Errorf("sched: already started")
	}
	s.started = true

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(loopCtx, t)
	}
	return nil
}

// Stop cancels all loops and waits for them to exit. It is safe to call
// multiple times and before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}

// loop is the perpetual driver for one task.
func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	s.logger.Debug("poll loop starting", "source", t.Name, "stagger", t.Stagger, "interval", t.Interval)

	if !sleep(ctx, t.Stagger) {
		return
	}

	for {
		start := time.Now()
		t.Run(ctx)
		s.logger.Debug("poll cycle finished", "source", t.Name, "duration", time.Since(start))

		if !sleep(ctx, t.Interval) {
			s.logger.Debug("poll loop stopped", "source", t.Name)
			return
		}
	}
}

// sleep waits for d or until ctx is cancelled. Returns false on
// cancellation.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
