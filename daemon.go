package main

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/docker"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/healthcheck"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/hostcpu"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/hostmem"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/jira"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/playback"
	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors/sentry"
	"gitlab.com/tinyland/lab/deskpulse/pkg/config"
	"gitlab.com/tinyland/lab/deskpulse/pkg/sched"
	"gitlab.com/tinyland/lab/deskpulse/pkg/snapshot"
)

// daemon owns the wiring: collectors feeding the snapshot through one
// scheduler loop per source. The facade is the only read surface handed
// out.
type daemon struct {
	logger    *slog.Logger
	snap      *snapshot.Snapshot
	facade    *snapshot.Facade
	scheduler *sched.Scheduler
}

// newDaemon builds the collectors from configuration and registers one
// scheduler task per source. Collector failures are stored in the slot and
// logged; they never stop a loop.
func newDaemon(cfg *config.Config, logger *slog.Logger) (*daemon, error) {
	snap := snapshot.New()
	scheduler := sched.New(logger)

	memC := hostmem.New(hostmem.Config{TopN: cfg.General.TopProcesses})
	cpuC := hostcpu.New(hostcpu.Config{TopN: cfg.General.TopProcesses})
	dockerC := docker.New(docker.Config{}, nil)
	player := playback.NewPlayer(nil)
	jiraC := jira.New(jira.Config{
		Token:      cfg.Jira.Token,
		Email:      cfg.Jira.Email,
		BaseURL:    cfg.Jira.BaseURL,
		JQL:        cfg.Jira.JQL,
		MaxResults: cfg.Jira.MaxResults,
	}, nil)
	healthC := healthcheck.New(healthcheck.Config{
		Endpoints: healthEndpoints(cfg.Health.Endpoints),
		Timeout:   cfg.Health.Timeout.Duration,
	}, nil)
	sentryC := sentry.New(sentry.Config{
		Token:     cfg.Sentry.Token,
		IssuesURL: cfg.Sentry.IssuesURL,
	}, nil)

	d := &daemon{
		logger:    logger,
		snap:      snap,
		facade:    snapshot.NewFacade(snap),
		scheduler: scheduler,
	}

	tasks := []sched.Task{
		poll(d, collectors.SourceMemory, cfg.Sources.Memory, memC.Collect, snap.SetMemory),
		poll(d, collectors.SourceCPU, cfg.Sources.CPU, cpuC.Collect, snap.SetCPU),
		poll(d, collectors.SourceContainers, cfg.Sources.Containers, dockerC.Collect, snap.SetContainers),
		poll(d, collectors.SourcePlayback, cfg.Sources.Playback, player.Current, snap.SetPlayback),
		poll(d, collectors.SourceTickets, cfg.Sources.Tickets, jiraC.Collect, snap.SetTickets),
		poll(d, collectors.SourceHealth, cfg.Sources.Health, healthC.Collect, snap.SetHealth),
		poll(d, collectors.SourceIssues, cfg.Sources.Issues, sentryC.Collect, snap.SetIssues),
	}
	for _, t := range tasks {
		if err := scheduler.Add(t); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// poll builds the scheduler task for one source: run the collector, log a
// failure, store the outcome wholesale.
func poll[T any](d *daemon, source collectors.Source, timing config.Timing,
	collect func(context.Context) (T, error), store func(T, error)) sched.Task {
	return sched.Task{
		Name:     string(source),
		Stagger:  timing.Stagger.Duration,
		Interval: timing.Interval.Duration,
		Run: func(ctx context.Context) {
			start := time.Now()
			v, err := collect(ctx)
			if err != nil {
				d.logger.Warn("collection failed",
					"source", source,
					"error", err,
					"duration", time.Since(start),
				)
			}
			store(v, err)
		},
	}
}

// start launches all poll loops.
func (d *daemon) start(ctx context.Context) error {
	return d.scheduler.Start(ctx)
}

// stop shuts down all poll loops and waits for them to exit.
func (d *daemon) stop() {
	d.scheduler.Stop()
}

// runOnce drives every source through a single collection cycle, ignoring
// staggers and intervals. Used by the one-shot CLI mode.
func (d *daemon) runOnce(ctx context.Context) {
	for _, t := range d.scheduler.Tasks() {
		t.Run(ctx)
	}
}

func healthEndpoints(eps []config.EndpointConfig) []healthcheck.Endpoint {
	out := make([]healthcheck.Endpoint, 0, len(eps))
	for _, ep := range eps {
		out = append(out, healthcheck.Endpoint{Name: ep.Name, URL: ep.URL})
	}
	return out
}
