// Package hostcpu collects host CPU usage via gopsutil. Utilisation is a
// delta between two samples separated by a short settling delay; a single
// instantaneous sample is meaningless and is never reported.
package hostcpu

import (
	"context"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// Default configuration values.
const (
	DefaultTopN        = 3
	DefaultSettleDelay = 200 * time.Millisecond
)

// Config controls the CPU collector.
type Config struct {
	// TopN caps the top-processes list. Zero uses DefaultTopN.
	TopN int

	// SettleDelay is the gap between the two samples. Zero uses
	// DefaultSettleDelay.
	SettleDelay time.Duration
}

// Collector gathers host CPU usage.
type Collector struct {
	topN   int
	settle time.Duration
}

// New creates a CPU collector.
func New(cfg Config) *Collector {
	topN := cfg.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	settle := cfg.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Collector{topN: topN, settle: settle}
}

// Collect samples per-core and per-process CPU usage over the settling
// window. The call blocks for roughly the settle delay.
func (c *Collector) Collect(ctx context.Context) (collectors.CPUUsage, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return collectors.CPUUsage{}, collectors.Errf(collectors.KindProcessFailure, "read process table: %v", err)
	}

	// Prime the per-process counters so the second read yields a delta
	// over the settling window rather than a since-start average.
	type primed struct {
		proc *process.Process
		name string
	}
	tracked := make([]primed, 0, len(procs))
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		if _, err := p.PercentWithContext(ctx, 0); err != nil {
			continue
		}
		tracked = append(tracked, primed{proc: p, name: name})
	}

	// cpu.Percent with a nonzero interval performs the two-sample delta
	// itself, sleeping for the window in between.
	cores, err := cpu.PercentWithContext(ctx, c.settle, true)
	if err != nil {
		return collectors.CPUUsage{}, collectors.Errf(collectors.KindProcessFailure, "sample cpu: %v", err)
	}

	usage := collectors.CPUUsage{
		Cores:   cores,
		Overall: MeanPercent(cores),
	}

	all := make([]collectors.ProcessCPU, 0, len(tracked))
	for _, t := range tracked {
		pct, err := t.proc.PercentWithContext(ctx, 0)
		if err != nil {
			continue
		}
		all = append(all, collectors.ProcessCPU{Name: t.name, Percentage: pct})
	}

	usage.TopProcesses = TopByPercent(all, c.topN)
	return usage, nil
}

// MeanPercent returns the arithmetic mean of the per-core percentages.
// Returns 0 for an empty list.
func MeanPercent(cores []float64) float64 {
	if len(cores) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range cores {
		sum += v
	}
	return sum / float64(len(cores))
}

// TopByPercent sorts descending by Percentage and truncates to n entries.
func TopByPercent(procs []collectors.ProcessCPU, n int) []collectors.ProcessCPU {
	sorted := make([]collectors.ProcessCPU, len(procs))
	copy(sorted, procs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Percentage > sorted[j].Percentage
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
