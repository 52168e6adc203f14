package quality

import (
	"testing"

	"github.com/gamepulse/gamepulse/pkg/metrics"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		snap metrics.Snapshot
		want Tier
	}{
		{
			name: "healthy session scores excellent",
			snap: metrics.Snapshot{LatencyMs: 40, PacketLossPercent: 0, CPUPercent: 50, GPUPercent: 60, RAMPercent: 50},
			want: Excellent,
		},
		{
			name: "degraded session scores poor",
			snap: metrics.Snapshot{LatencyMs: 150, PacketLossPercent: 8, CPUPercent: 85, GPUPercent: 90, RAMPercent: 50},
			want: Poor,
		},
		{
			name: "high latency alone is poor",
			snap: metrics.Snapshot{LatencyMs: 151},
			want: Poor,
		},
		{
			name: "moderate latency is fair",
			snap: metrics.Snapshot{LatencyMs: 101},
			want: Fair,
		},
		{
			name: "mild latency is good",
			snap: metrics.Snapshot{LatencyMs: 51},
			want: Good,
		},
		{
			name: "packet loss above one percent is poor",
			snap: metrics.Snapshot{LatencyMs: 20, PacketLossPercent: 1.1},
			want: Poor,
		},
		{
			name: "packet loss above half percent is fair",
			snap: metrics.Snapshot{LatencyMs: 20, PacketLossPercent: 0.6},
			want: Fair,
		},
		{
			name: "cpu saturation is poor",
			snap: metrics.Snapshot{LatencyMs: 20, CPUPercent: 96},
			want: Poor,
		},
		{
			name: "busy cpu is good not excellent",
			snap: metrics.Snapshot{LatencyMs: 20, CPUPercent: 61},
			want: Good,
		},
		{
			name: "ram pressure is fair",
			snap: metrics.Snapshot{LatencyMs: 20, RAMPercent: 81},
			want: Fair,
		},
		{
			name: "empty snapshot defaults to excellent",
			// Unmeasured latency normalizes to the neutral 25ms.
			snap: metrics.Snapshot{},
			want: Excellent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.snap); got != tt.want {
				t.Errorf("Score = %v, want %v", got, tt.want)
			}
		})
	}
}

// Degrading any single field while holding the others fixed must never
// improve the tier.
func TestScore_MonotonicPerField(t *testing.T) {
	base := metrics.Snapshot{LatencyMs: 40, PacketLossPercent: 0.2, CPUPercent: 50, GPUPercent: 55, RAMPercent: 50}

	degrade := []struct {
		name  string
		apply func(s metrics.Snapshot, v float64) metrics.Snapshot
		steps []float64
	}{
		{
			name:  "latency",
			apply: func(s metrics.Snapshot, v float64) metrics.Snapshot { s.LatencyMs = v; return s },
			steps: []float64{40, 60, 90, 110, 140, 160, 300},
		},
		{
			name:  "packet_loss",
			apply: func(s metrics.Snapshot, v float64) metrics.Snapshot { s.PacketLossPercent = v; return s },
			steps: []float64{0.2, 0.4, 0.6, 0.9, 1.2, 8},
		},
		{
			name:  "cpu",
			apply: func(s metrics.Snapshot, v float64) metrics.Snapshot { s.CPUPercent = v; return s },
			steps: []float64{50, 65, 75, 85, 92, 97},
		},
		{
			name:  "gpu",
			apply: func(s metrics.Snapshot, v float64) metrics.Snapshot { s.GPUPercent = v; return s },
			steps: []float64{55, 72, 80, 88, 96},
		},
		{
			name:  "ram",
			apply: func(s metrics.Snapshot, v float64) metrics.Snapshot { s.RAMPercent = v; return s },
			steps: []float64{50, 70, 82, 91},
		},
	}

	for _, d := range degrade {
		t.Run(d.name, func(t *testing.T) {
			prev := Excellent
			for i, v := range d.steps {
				got := Score(d.apply(base, v))
				if i > 0 && got > prev {
					t.Fatalf("tier improved from %v to %v when %s rose to %v", prev, got, d.name, v)
				}
				prev = got
			}
		})
	}
}

func TestTierOrdering(t *testing.T) {
	if !(Poor < Fair && Fair < Good && Good < Excellent) {
		t.Fatal("tiers must be totally ordered Poor < Fair < Good < Excellent")
	}
}
