// deskpulse is a multi-source status poller for a desktop dashboard.
//
// It polls host memory and CPU, running docker containers, Spotify
// playback, Jira tickets, HTTP health endpoints, and Sentry issues, each
// on its own cadence, and keeps the latest result of every source in an
// in-memory snapshot. The snapshot is read synchronously by the TUI or
// dumped as JSON in one-shot mode.
//
// Usage:
//
//	deskpulse [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/deskpulse/config.toml)
//	-tui            Launch the interactive dashboard
//	-once           Run a single collection pass and print the snapshot as JSON
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/deskpulse/pkg/config"
	"gitlab.com/tinyland/lab/deskpulse/pkg/snapshot"
	"gitlab.com/tinyland/lab/deskpulse/pkg/tui"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		runTUI      = flag.Bool("tui", false, "Launch the interactive dashboard")
		runOnce     = flag.Bool("once", false, "Run a single collection pass and print the snapshot as JSON")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("deskpulse %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := setupLogging(cfg, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	d, err := newDaemon(cfg, logger)
	if err != nil {
		logger.Error("daemon init failed", "error", err)
		os.Exit(1)
	}

	switch {
	case *runOnce:
		d.runOnce(ctx)
		if err := printSnapshot(d.facade); err != nil {
			logger.Error("snapshot dump failed", "error", err)
			os.Exit(1)
		}

	case *runTUI:
		if err := d.start(ctx); err != nil {
			logger.Error("scheduler start failed", "error", err)
			os.Exit(1)
		}
		defer d.stop()

		p := tea.NewProgram(tui.NewModel(d.facade), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			logger.Error("TUI error", "error", err)
			os.Exit(1)
		}

	default:
		logger.Info("starting deskpulse daemon", "config", *configPath)
		if err := d.start(ctx); err != nil {
			logger.Error("scheduler start failed", "error", err)
			os.Exit(1)
		}
		<-ctx.Done()
		d.stop()
		logger.Info("deskpulse daemon stopped")
	}
}

// setupLogging builds the process logger: text handler on stderr, teed into
// the configured log file when one is set.
func setupLogging(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level := parseLogLevel(cfg.General.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}

	w := io.Writer(os.Stderr)
	closeLog := func() {}
	if cfg.General.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.General.LogFile), 0755); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		closeLog = func() { f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return logger, closeLog, nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// printSnapshot writes every slot of the snapshot to stdout as one JSON
// document.
func printSnapshot(f *snapshot.Facade) error {
	doc := map[string]any{
		"memory":     f.MemoryUsage(),
		"cpu":        f.CPUUsage(),
		"containers": f.Containers(),
		"playback":   f.Playback(),
		"tickets":    f.Tickets(),
		"health":     f.HealthChecks(),
		"issues":     f.TrackedIssues(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
