// Package perf tracks latency and frame rate over time and classifies
// their direction of movement.
package perf

import (
	"sync"
	"time"

	"github.com/gamepulse/gamepulse/internal/rolling"
	"github.com/gamepulse/gamepulse/pkg/metrics"
)

// Stats summarizes the tracked windows for the dashboard.
type Stats struct {
	CurrentLatencyMs float64   `json:"current_latency_ms"`
	AvgLatencyMs     float64   `json:"avg_latency_ms"`
	MinLatencyMs     float64   `json:"min_latency_ms"`
	MaxLatencyMs     float64   `json:"max_latency_ms"`
	JitterMs         float64   `json:"jitter_ms"`
	CurrentFPS       float64   `json:"current_fps"`
	AvgFPS           float64   `json:"avg_fps"`
	MinFPS           float64   `json:"min_fps"`
	SampleCount      int       `json:"sample_count"`
	LastSample       time.Time `json:"last_sample"`
}

// HistoryPoint is one recorded observation pair, oldest first in History.
type HistoryPoint struct {
	LatencyMs float64 `json:"latency_ms"`
	FPS       float64 `json:"fps"`
}

// Monitor accumulates latency and frame rate readings in bounded windows.
// Safe for concurrent use.
type Monitor struct {
	mu      sync.RWMutex
	latency *rolling.Buffer
	fps     *rolling.Buffer
	last    metrics.Snapshot
	lastFPS float64
	samples int
}

// NewMonitor creates a monitor with the default window capacities.
func NewMonitor() *Monitor {
	return &Monitor{
		latency: rolling.New(rolling.DefaultFrameCapacity),
		fps:     rolling.New(rolling.DefaultFrameCapacity),
	}
}

// Record ingests one sample, deriving an estimated frame rate from the
// resource readings.
func (m *Monitor) Record(snap metrics.Snapshot) {
	est := EstimateFPS(snap)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.latency.Record(snap.LatencyMs)
	m.fps.Record(est)
	m.last = snap
	m.lastFPS = est
	m.samples++
}

// RecordFrame ingests a frame rate reported directly by a game client,
// overriding the estimate for that observation.
func (m *Monitor) RecordFrame(fps float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fps.Record(fps)
	m.lastFPS = fps
}

// Stats returns the window summary. Before any sample arrives the
// aggregates fall back to the current (zero) readings instead of erroring.
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		CurrentLatencyMs: m.last.LatencyMs,
		AvgLatencyMs:     m.last.LatencyMs,
		MinLatencyMs:     m.last.LatencyMs,
		MaxLatencyMs:     m.last.LatencyMs,
		JitterMs:         m.last.JitterMs,
		CurrentFPS:       m.lastFPS,
		AvgFPS:           m.lastFPS,
		MinFPS:           m.lastFPS,
		SampleCount:      m.samples,
		LastSample:       m.last.Timestamp,
	}

	if m.latency.Len() > 0 {
		s.AvgLatencyMs = m.latency.Mean()
		if min, err := m.latency.Min(); err == nil {
			s.MinLatencyMs = min
		}
		if max, err := m.latency.Max(); err == nil {
			s.MaxLatencyMs = max
		}
	}
	if m.fps.Len() > 0 {
		s.AvgFPS = m.fps.Mean()
		if min, err := m.fps.Min(); err == nil {
			s.MinFPS = min
		}
	}
	return s
}

// Trends classifies the direction of each tracked window.
func (m *Monitor) Trends() map[string]rolling.Trend {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]rolling.Trend{
		"latency_ms": rolling.Classify(m.latency),
		"fps":        rolling.Classify(m.fps),
	}
}

// History returns up to limit observation pairs, oldest first. The pairing
// drifts when RecordFrame outpaces Record; both windows are simply read
// back-aligned.
func (m *Monitor) History(limit int) []HistoryPoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lat := m.latency.Values()
	fps := m.fps.Values()

	n := len(lat)
	if len(fps) < n {
		n = len(fps)
	}
	if limit > 0 && limit < n {
		lat = lat[len(lat)-limit:]
		fps = fps[len(fps)-limit:]
		n = limit
	} else {
		lat = lat[len(lat)-n:]
		fps = fps[len(fps)-n:]
	}

	out := make([]HistoryPoint, n)
	for i := 0; i < n; i++ {
		out[i] = HistoryPoint{LatencyMs: lat[i], FPS: fps[i]}
	}
	return out
}
