package hostmem

import (
	"context"
	"testing"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

func TestTopByBytes(t *testing.T) {
	procs := []collectors.ProcessMemory{
		{Name: "small", Bytes: 100},
		{Name: "large", Bytes: 9000},
		{Name: "medium", Bytes: 4500},
		{Name: "tiny", Bytes: 10},
	}

	got := TopByBytes(procs, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	wantOrder := []string{"large", "medium", "small"}
	for i, name := range wantOrder {
		if got[i].Name != name {
			t.Errorf("rank %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestTopByBytesDoesNotMutateInput(t *testing.T) {
	procs := []collectors.ProcessMemory{
		{Name: "a", Bytes: 1},
		{Name: "b", Bytes: 2},
	}
	TopByBytes(procs, 1)
	if procs[0].Name != "a" || procs[1].Name != "b" {
		t.Error("input slice order changed")
	}
}

func TestTopByBytesFewerThanN(t *testing.T) {
	procs := []collectors.ProcessMemory{{Name: "only", Bytes: 1}}
	got := TopByBytes(procs, 5)
	if len(got) != 1 {
		t.Errorf("expected 1 entry, got %d", len(got))
	}
}

func TestCollectReadsLiveCounters(t *testing.T) {
	c := New(Config{TopN: 3})

	got, err := c.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if got.Total == 0 {
		t.Error("total memory should be nonzero")
	}
	if got.Used > got.Total {
		t.Errorf("used %d exceeds total %d", got.Used, got.Total)
	}
	if got.Percentage < 0 || got.Percentage > 100 {
		t.Errorf("percentage %f out of range", got.Percentage)
	}
	if len(got.TopProcesses) > 3 {
		t.Errorf("top processes %d exceeds cap", len(got.TopProcesses))
	}
	for i := 1; i < len(got.TopProcesses); i++ {
		if got.TopProcesses[i].Bytes > got.TopProcesses[i-1].Bytes {
			t.Error("top processes are not sorted descending")
		}
	}
}
