// Package hostmem collects host memory usage via gopsutil: overall
// used/total plus the top-N processes by resident set size.
package hostmem

import (
	"context"
	"sort"

	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"gitlab.com/tinyland/lab/deskpulse/pkg/collectors"
)

// DefaultTopN is the process list cap used when Config.TopN is zero.
const DefaultTopN = 3

// Config controls the memory collector.
type Config struct {
	// TopN caps the top-processes list. Zero uses DefaultTopN.
	TopN int
}

// Collector gathers host memory usage. The zero value is not usable; use New.
type Collector struct {
	topN int
}

// New creates a memory collector.
func New(cfg Config) *Collector {
	topN := cfg.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Collector{topN: topN}
}

// Collect reads overall memory counters and the process table.
func (c *Collector) Collect(ctx context.Context) (collectors.MemoryUsage, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return collectors.MemoryUsage{}, collectors.Errf(collectors.KindProcessFailure, "read memory counters: %v", err)
	}

	usage := collectors.MemoryUsage{
		Used:  vm.Used,
		Total: vm.Total,
	}
	if vm.Total > 0 {
		usage.Percentage = float64(vm.Used) / float64(vm.Total) * 100
	}

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return collectors.MemoryUsage{}, collectors.Errf(collectors.KindProcessFailure, "read process table: %v", err)
	}

	all := make([]collectors.ProcessMemory, 0, len(procs))
	for _, p := range procs {
		info, err := p.MemoryInfoWithContext(ctx)
		if err != nil || info == nil {
			continue // process may have exited mid-scan
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		pm := collectors.ProcessMemory{
			Name:  name,
			Bytes: info.RSS,
		}
		if vm.Total > 0 {
			pm.Percentage = float64(info.RSS) / float64(vm.Total) * 100
		}
		all = append(all, pm)
	}

	usage.TopProcesses = TopByBytes(all, c.topN)
	return usage, nil
}

// TopByBytes sorts descending by Bytes and truncates to n entries.
func TopByBytes(procs []collectors.ProcessMemory, n int) []collectors.ProcessMemory {
	sorted := make([]collectors.ProcessMemory, len(procs))
	copy(sorted, procs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Bytes > sorted[j].Bytes
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
