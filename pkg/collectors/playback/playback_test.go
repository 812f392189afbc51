package playback

import (
	"context"
	"errors"
	"testing"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

type fakeRunner struct {
	out string
	err error
}

func (f fakeRunner) Output(_ context.Context, _ string, _ ...string) ([]byte, error) {
	return []byte(f.out), f.err
}

func TestCurrentParsesTrack(t *testing.T) {
	p := NewScriptPlayer(fakeRunner{out: "Paranoid Android|Radiohead|OK Computer|https://i.scdn.co/image/abc|playing\n"})

	got, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}

	want := collectors.Track{
		Name:       "Paranoid Android",
		Artist:     "Radiohead",
		Album:      "OK Computer",
		ArtworkURL: "https://i.scdn.co/image/abc",
		Playing:    true,
	}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestCurrentPausedState(t *testing.T) {
	p := NewScriptPlayer(fakeRunner{out: "Song|Artist|Album|url|paused"})

	got, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if got.Playing {
		t.Error("paused state should map to Playing=false")
	}
}

func TestCurrentPlayerNotRunning(t *testing.T) {
	p := NewScriptPlayer(fakeRunner{out: "not_running\n"})

	_, err := p.Current(context.Background())
	if err == nil {
		t.Fatal("expected error when the player is closed")
	}
	if se := collectors.AsSourceError(err); se.Kind != collectors.KindProcessFailure {
		t.Errorf("error kind = %q, want %q", se.Kind, collectors.KindProcessFailure)
	}
}

func TestCurrentScriptFailure(t *testing.T) {
	p := NewScriptPlayer(fakeRunner{err: errors.New("osascript: command not found")})

	_, err := p.Current(context.Background())
	if err == nil {
		t.Fatal("expected error when the script fails")
	}
	if se := collectors.AsSourceError(err); se.Kind != collectors.KindProcessFailure {
		t.Errorf("error kind = %q, want %q", se.Kind, collectors.KindProcessFailure)
	}
}

func TestCurrentShortOutput(t *testing.T) {
	p := NewScriptPlayer(fakeRunner{out: "Song|Artist"})

	_, err := p.Current(context.Background())
	if err == nil {
		t.Fatal("expected error on truncated output")
	}
	if se := collectors.AsSourceError(err); se.Kind != collectors.KindProcessFailure {
		t.Errorf("error kind = %q, want %q", se.Kind, collectors.KindProcessFailure)
	}
}

func TestUnsupportedPlayer(t *testing.T) {
	_, err := UnsupportedPlayer{}.Current(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if se := collectors.AsSourceError(err); se.Kind != collectors.KindUnsupported {
		t.Errorf("error kind = %q, want %q", se.Kind, collectors.KindUnsupported)
	}
}
