package slidedeck

import "runtime"

// Probe worker sizing constants.
const (
	// MinProbeWorkers ensures at least one probe runs at a time.
	MinProbeWorkers = 1

	// MaxProbeWorkers caps concurrent probes so a large deck does not flood
	// the file system or a remote asset host.
	MaxProbeWorkers = 8

	// cpuDivisor leaves headroom for the server and the event loop.
	cpuDivisor = 2
)

// ResolveProbeWorkers determines the number of concurrent image probes.
// If workers > 0, uses that value (capped at MaxProbeWorkers).
// Otherwise, calculates based on available CPUs: GOMAXPROCS / 2,
// clamped to [MinProbeWorkers, MaxProbeWorkers].
func ResolveProbeWorkers(workers int) int {
	if workers > 0 {
		return min(workers, MaxProbeWorkers)
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	return max(MinProbeWorkers, min(n, MaxProbeWorkers))
}
