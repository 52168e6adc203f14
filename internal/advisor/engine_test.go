package advisor

import (
	"reflect"
	"testing"
	"time"

	"github.com/gamepulse/gamepulse/internal/quality"
	"github.com/gamepulse/gamepulse/pkg/metrics"
)

func snapshotAt(latency, loss, cpu, gpu, ram float64) metrics.Snapshot {
	return metrics.Snapshot{
		LatencyMs:         latency,
		PacketLossPercent: loss,
		BandwidthMbps:     metrics.DefaultBandwidthMbps,
		CPUPercent:        cpu,
		GPUPercent:        gpu,
		RAMPercent:        ram,
		Timestamp:         time.Now().UTC(),
	}
}

func TestEvaluateHealthySnapshotYieldsNothing(t *testing.T) {
	e := NewEngine(DefaultRules())

	recs := e.Evaluate(snapshotAt(40, 0, 50, 60, 50))
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d: %+v", len(recs), recs)
	}
}

func TestEvaluatePriorities(t *testing.T) {
	tests := []struct {
		name string
		snap metrics.Snapshot
		want []Recommendation
	}{
		{
			name: "degraded everything is all high",
			snap: snapshotAt(150, 2.0, 85, 90, 85),
			want: []Recommendation{
				{Priority: PriorityHigh, Category: CategoryNetwork},
				{Priority: PriorityHigh, Category: CategoryCPU},
				{Priority: PriorityHigh, Category: CategoryGPU},
				{Priority: PriorityHigh, Category: CategoryMemory},
			},
		},
		{
			name: "soft band is medium",
			snap: snapshotAt(60, 0, 70, 75, 75),
			want: []Recommendation{
				{Priority: PriorityMedium, Category: CategoryNetwork},
				{Priority: PriorityMedium, Category: CategoryCPU},
				{Priority: PriorityMedium, Category: CategoryGPU},
				{Priority: PriorityMedium, Category: CategoryMemory},
			},
		},
		{
			name: "packet loss alone trips the network check",
			snap: snapshotAt(30, 1.5, 40, 40, 40),
			want: []Recommendation{
				{Priority: PriorityHigh, Category: CategoryNetwork},
			},
		},
		{
			name: "exact threshold does not fire",
			snap: snapshotAt(100, 1.0, 80, 85, 80),
			want: []Recommendation{
				{Priority: PriorityMedium, Category: CategoryNetwork},
				{Priority: PriorityMedium, Category: CategoryCPU},
				{Priority: PriorityMedium, Category: CategoryGPU},
				{Priority: PriorityMedium, Category: CategoryMemory},
			},
		},
		{
			name: "only the gpu is hot",
			snap: snapshotAt(20, 0, 30, 92, 40),
			want: []Recommendation{
				{Priority: PriorityHigh, Category: CategoryGPU},
			},
		},
	}

	e := NewEngine(DefaultRules())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := e.Evaluate(tt.snap)
			if len(recs) != len(tt.want) {
				t.Fatalf("got %d recommendations, want %d: %+v", len(recs), len(tt.want), recs)
			}
			for i, rec := range recs {
				if rec.Priority != tt.want[i].Priority {
					t.Errorf("rec %d: priority = %s, want %s", i, rec.Priority, tt.want[i].Priority)
				}
				if rec.Category != tt.want[i].Category {
					t.Errorf("rec %d: category = %s, want %s", i, rec.Category, tt.want[i].Category)
				}
				if rec.Action == "" || rec.EstimatedImprovement == "" {
					t.Errorf("rec %d: missing action or improvement text", i)
				}
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	e := NewEngine(DefaultRules())
	snap := snapshotAt(150, 2.0, 85, 90, 85)

	first := e.Evaluate(snap)
	for i := 0; i < 10; i++ {
		if got := e.Evaluate(snap); !reflect.DeepEqual(got, first) {
			t.Fatalf("evaluation %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestOptimizeCountsRuns(t *testing.T) {
	e := NewEngine(DefaultRules())

	if s := e.Status(); s.OptimizationsApplied != 0 || s.LastOptimization != nil {
		t.Fatalf("fresh engine status = %+v", s)
	}

	result := e.Optimize(snapshotAt(150, 0, 50, 50, 50))
	if result.CurrentQuality != quality.Fair {
		t.Errorf("quality = %s, want %s", result.CurrentQuality, quality.Fair)
	}
	if len(result.Recommendations) != 1 {
		t.Errorf("got %d recommendations, want 1", len(result.Recommendations))
	}

	e.Optimize(snapshotAt(10, 0, 10, 10, 10))

	s := e.Status()
	if s.OptimizationsApplied != 2 {
		t.Errorf("optimizations applied = %d, want 2", s.OptimizationsApplied)
	}
	if s.LastOptimization == nil {
		t.Error("last optimization not recorded")
	}
	if !s.Active {
		t.Error("engine should report active")
	}
}

func TestEvaluateRespectsRuntimeRuleChanges(t *testing.T) {
	rules := DefaultRules()
	e := NewEngine(rules)
	snap := snapshotAt(10, 0, 65, 10, 10)

	recs := e.Evaluate(snap)
	if len(recs) != 1 || recs[0].Priority != PriorityMedium {
		t.Fatalf("before rule change: %+v", recs)
	}

	if !rules.Set(RuleCPUThreshold, 60) {
		t.Fatal("Set rejected a known rule")
	}

	recs = e.Evaluate(snap)
	if len(recs) != 1 || recs[0].Priority != PriorityHigh {
		t.Fatalf("after rule change: %+v", recs)
	}
}
