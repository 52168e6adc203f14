package advisor

import (
	"sync"
	"time"

	"github.com/gamepulse/gamepulse/internal/quality"
	"github.com/gamepulse/gamepulse/pkg/metrics"
)

// Priority ranks how urgently a recommendation should be applied.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recommendation categories, in fixed evaluation order.
const (
	CategoryNetwork = "network"
	CategoryCPU     = "cpu"
	CategoryGPU     = "gpu"
	CategoryMemory  = "memory"
)

// Recommendation is a single actionable tuning suggestion. Immutable once
// created.
type Recommendation struct {
	Priority             Priority `json:"priority"`
	Category             string   `json:"category"`
	Action               string   `json:"action"`
	EstimatedImprovement string   `json:"estimated_improvement"`
}

// Result is the outcome of one optimization pass.
type Result struct {
	Timestamp       time.Time        `json:"timestamp"`
	CurrentQuality  quality.Tier     `json:"current_quality"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Status reports the engine's activity for the dashboard.
type Status struct {
	Active               bool       `json:"active"`
	OptimizationsApplied int        `json:"optimizations_applied"`
	LastOptimization     *time.Time `json:"last_optimization,omitempty"`
}

// Soft cutoffs below the configured hard thresholds. Crossing only the soft
// cutoff yields a Medium recommendation; crossing the hard rule threshold
// yields High.
const (
	softLatencyMs  = 50.0
	softPacketLoss = 0.5
	softCPU        = 60.0
	softGPU        = 70.0
	softMemory     = 70.0
)

// Engine evaluates metric snapshots against a RuleSet and produces
// prioritized recommendations.
type Engine struct {
	rules *RuleSet

	mu      sync.Mutex
	applied int
	lastRun *time.Time
}

// NewEngine creates an engine bound to the given rule set.
func NewEngine(rules *RuleSet) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the engine's rule set for runtime tuning.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// Evaluate produces the ordered recommendation list for a snapshot.
// Evaluation order is fixed (network, cpu, gpu, memory) and at most one
// recommendation is emitted per category, so identical inputs always yield
// list-equal output. Pure with respect to engine state; never fails on
// out-of-range input.
func (e *Engine) Evaluate(s metrics.Snapshot) []Recommendation {
	t := e.rules.snapshot()
	recs := make([]Recommendation, 0, 4)

	if rec, ok := networkRecommendation(s, t); ok {
		recs = append(recs, rec)
	}
	if rec, ok := thresholdRecommendation(s.CPUPercent, softCPU, t.cpu, CategoryCPU,
		"Close background processes and set the game client to high priority",
		"15-25% frame rate headroom"); ok {
		recs = append(recs, rec)
	}
	if rec, ok := thresholdRecommendation(s.GPUPercent, softGPU, t.gpu, CategoryGPU,
		"Lower in-game resolution or graphics preset",
		"10-20% frame rate headroom"); ok {
		recs = append(recs, rec)
	}
	if rec, ok := thresholdRecommendation(s.RAMPercent, softMemory, t.memory, CategoryMemory,
		"Close unnecessary applications to free memory",
		"reduced stutter from paging"); ok {
		recs = append(recs, rec)
	}

	return recs
}

// Optimize runs one evaluation pass and records the run for status
// reporting. This is the only stateful entry point.
func (e *Engine) Optimize(s metrics.Snapshot) Result {
	recs := e.Evaluate(s)
	now := time.Now().UTC()

	e.mu.Lock()
	e.applied++
	e.lastRun = &now
	e.mu.Unlock()

	return Result{
		Timestamp:       now,
		CurrentQuality:  quality.Score(s),
		Recommendations: recs,
	}
}

// Status returns the engine's run counters.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		Active:               true,
		OptimizationsApplied: e.applied,
		LastOptimization:     e.lastRun,
	}
}

// networkRecommendation merges the latency and packet-loss checks into one
// network-category recommendation carrying the highest applicable priority.
func networkRecommendation(s metrics.Snapshot, t thresholds) (Recommendation, bool) {
	high := s.LatencyMs > t.latency || s.PacketLossPercent > t.packetLoss
	medium := s.LatencyMs > softLatencyMs || s.PacketLossPercent > softPacketLoss

	if !high && !medium {
		return Recommendation{}, false
	}

	priority := PriorityMedium
	if high {
		priority = PriorityHigh
	}
	return Recommendation{
		Priority:             priority,
		Category:             CategoryNetwork,
		Action:               "Switch to a wired connection or a closer server region",
		EstimatedImprovement: "5-10ms latency reduction",
	}, true
}

func thresholdRecommendation(value, soft, hard float64, category, action, improvement string) (Recommendation, bool) {
	switch {
	case value > hard:
		return Recommendation{Priority: PriorityHigh, Category: category, Action: action, EstimatedImprovement: improvement}, true
	case value > soft:
		return Recommendation{Priority: PriorityMedium, Category: category, Action: action, EstimatedImprovement: improvement}, true
	default:
		return Recommendation{}, false
	}
}
