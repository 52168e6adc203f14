// Package quality maps a metric snapshot to a discrete streaming-quality
// tier via ordered threshold bands.
package quality

import "github.com/gamepulse/gamepulse/pkg/metrics"

// Tier is a coarse classification of the current streaming experience,
// ordered from most to least degraded.
type Tier int

const (
	Poor Tier = iota
	Fair
	Good
	Excellent
)

// String returns the lowercase label used in API responses.
func (t Tier) String() string {
	switch t {
	case Poor:
		return "poor"
	case Fair:
		return "fair"
	case Good:
		return "good"
	default:
		return "excellent"
	}
}

// MarshalJSON encodes the tier as its string label.
func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Threshold bands evaluated worst-to-best; the first matching band wins.
// Values above a band's cutoff in any single listed field place the
// snapshot in that band, so degrading one field can never improve the tier.
type band struct {
	latency, loss, cpu, gpu, ram float64
}

var (
	poorBand = band{latency: 150, loss: 1.0, cpu: 95, gpu: 95, ram: 90}
	fairBand = band{latency: 100, loss: 0.5, cpu: 80, gpu: 85, ram: 80}
)

// Score returns the quality tier for a snapshot. Absent fields are
// normalized to neutral values first so a partial snapshot cannot
// spuriously score Poor. Pure function.
func Score(s metrics.Snapshot) Tier {
	s = s.Normalized()

	if exceeds(s, poorBand) {
		return Poor
	}
	if exceeds(s, fairBand) {
		return Fair
	}
	if s.LatencyMs > 50 || s.CPUPercent > 60 || s.GPUPercent > 70 {
		return Good
	}
	return Excellent
}

func exceeds(s metrics.Snapshot, b band) bool {
	return s.LatencyMs > b.latency ||
		s.PacketLossPercent > b.loss ||
		s.CPUPercent > b.cpu ||
		s.GPUPercent > b.gpu ||
		s.RAMPercent > b.ram
}
