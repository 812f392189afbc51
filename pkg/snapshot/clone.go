package snapshot

import "gitlab.com/tinyland/lab/deskpulse/pkg/collectors"

// Clone functions make facade reads independent of the stored value:
// mutating a returned slice must never reach back into a slot.

func cloneMemory(v collectors.MemoryUsage) collectors.MemoryUsage {
	v.TopProcesses = copySlice(v.TopProcesses)
	return v
}

func cloneCPU(v collectors.CPUUsage) collectors.CPUUsage {
	v.Cores = copySlice(v.Cores)
	v.TopProcesses = copySlice(v.TopProcesses)
	return v
}

func cloneContainers(v []collectors.Container) []collectors.Container {
	return copySlice(v)
}

func cloneTrack(v collectors.Track) collectors.Track {
	return v
}

func cloneTickets(v []collectors.Ticket) []collectors.Ticket {
	return copySlice(v)
}

func cloneHealth(v []collectors.HealthResult) []collectors.HealthResult {
	out := copySlice(v)
	for i := range out {
		if out[i].StatusCode != nil {
			code := *out[i].StatusCode
			out[i].StatusCode = &code
		}
	}
	return out
}

func cloneIssues(v []collectors.TrackedIssue) []collectors.TrackedIssue {
	return copySlice(v)
}

func copySlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	dst := make([]T, len(src))
	copy(dst, src)
	return dst
}
