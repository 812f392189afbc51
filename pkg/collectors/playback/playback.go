// Package playback reports the current media track. The OS scripting
// facility that exposes player state only exists on darwin, so the
// collector is a capability-gated Player interface: the implementation is
// selected once at startup, and unsupported platforms return an explicit
// typed error instead of being compiled out at call sites.
package playback

import (
	"context"
	"os/exec"
	"runtime"
	"strings"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// appleScript asks the player for track metadata and play state as a single
// pipe-joined line, or the not_running sentinel when the app is closed.
const appleScript = `
	tell application "Spotify"
		if it is running then
			set trackName to name of current track
			set artistName to artist of current track
			set albumName to album of current track
			set artworkUrl to artwork url of current track
			set playerState to player state as string
			return trackName & "|" & artistName & "|" & albumName & "|" & artworkUrl & "|" & playerState
		else
			return "not_running"
		end if
	end tell
`

const notRunningSentinel = "not_running"

// Player is the capability-gated playback collector.
type Player interface {
	// Current returns the track now loaded in the player.
	Current(ctx context.Context) (collectors.Track, error)
}

// Runner abstracts scripting-facility execution for testability.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewPlayer selects the platform implementation. Only darwin has a
// compatible scripting facility; everywhere else playback is a permanent,
// typed "unsupported" result. A nil runner uses os/exec.
func NewPlayer(runner Runner) Player {
	if runtime.GOOS != "darwin" {
		return UnsupportedPlayer{}
	}
	if runner == nil {
		runner = execRunner{}
	}
	return &ScriptPlayer{runner: runner}
}

// ScriptPlayer queries the player through the OS scripting facility.
type ScriptPlayer struct {
	runner Runner
}

// NewScriptPlayer creates a ScriptPlayer with an injected runner. Tests use
// this directly to exercise parsing on any platform.
func NewScriptPlayer(runner Runner) *ScriptPlayer {
	return &ScriptPlayer{runner: runner}
}

// Current runs the script and parses its output. A closed player is a
// recoverable process failure, not a crash.
func (p *ScriptPlayer) Current(ctx context.Context) (collectors.Track, error) {
	out, err := p.runner.Output(ctx, "osascript", "-e", appleScript)
	if err != nil {
		return collectors.Track{}, collectors.Errf(collectors.KindProcessFailure, "query player: %v", err)
	}

	result := strings.TrimSpace(string(out))
	if result == notRunningSentinel {
		return collectors.Track{}, collectors.Errf(collectors.KindProcessFailure, "player is not running")
	}

	parts := strings.Split(result, "|")
	if len(parts) < 5 {
		return collectors.Track{}, collectors.Errf(collectors.KindProcessFailure, "unexpected player output: %q", result)
	}

	return collectors.Track{
		Name:       parts[0],
		Artist:     parts[1],
		Album:      parts[2],
		ArtworkURL: parts[3],
		Playing:    parts[4] == "playing",
	}, nil
}

// UnsupportedPlayer is the implementation for platforms without a media
// scripting facility. It always fails with the same typed error.
type UnsupportedPlayer struct{}

// Current reports that playback collection is unavailable here.
func (UnsupportedPlayer) Current(ctx context.Context) (collectors.Track, error) {
	return collectors.Track{}, collectors.Errf(collectors.KindUnsupported, "playback is not supported on %s", runtime.GOOS)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return nil, err
	}
	return out, nil
}
