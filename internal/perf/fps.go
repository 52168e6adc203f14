package perf

import "github.com/gamepulse/gamepulse/pkg/metrics"

// Frame rate tiers for the resource-based estimate.
const (
	fpsConstrained = 60
	fpsLoaded      = 90
	fpsHeadroom    = 120
)

// EstimateFPS derives an achievable frame rate from resource pressure.
// Host counters cannot observe the render loop directly, so this stands in
// until a game client reports real frame times via RecordFrame.
func EstimateFPS(s metrics.Snapshot) float64 {
	switch {
	case s.GPUPercent > 90 || s.CPUPercent > 80 || s.RAMPercent > 85:
		return fpsConstrained
	case s.GPUPercent > 70 || s.CPUPercent > 60 || s.RAMPercent > 70:
		return fpsLoaded
	default:
		return fpsHeadroom
	}
}
