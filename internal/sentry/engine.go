package sentry

import (
	"fmt"
	"sync"
	"time"

	"github.com/gamepulse/gamepulse/pkg/metrics"
)

// Watched metric names, used both as threshold keys and Alert.Metric values.
const (
	MetricCPU         = "cpu"
	MetricGPU         = "gpu"
	MetricMemory      = "memory"
	MetricTemperature = "temperature"
	MetricLatency     = "latency"
	MetricPacketLoss  = "packet_loss"
)

// maxAlertLog bounds the in-memory alert log. The oldest entries are
// evicted first.
const maxAlertLog = 1000

// DefaultThresholds returns the stock breach limits. The resource limits
// match the advisor's hard-priority cutoffs so an alert and a High
// recommendation fire on the same readings.
func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		MetricCPU:         80,
		MetricGPU:         85,
		MetricMemory:      80,
		MetricTemperature: 80,
		MetricLatency:     100,
		MetricPacketLoss:  1.0,
	}
}

// defaultSeverity maps each metric to the level its alerts are raised at.
// Packet loss is the one signal that makes cloud gaming unplayable outright,
// so it alone defaults to critical.
func defaultSeverity(metric string) Level {
	if metric == MetricPacketLoss {
		return LevelCritical
	}
	return LevelWarning
}

// Engine evaluates samples against thresholds and maintains the alert log.
// A zero cooldown re-raises on every breaching sample; a positive cooldown
// suppresses repeat alerts for the same metric within the window.
type Engine struct {
	mu         sync.Mutex
	thresholds map[string]float64
	severity   map[string]Level
	cooldown   time.Duration
	lastRaised map[string]time.Time
	suppressed int

	log []Alert
}

// NewEngine creates an engine with the given thresholds and cooldown.
// Nil thresholds means the defaults.
func NewEngine(thresholds map[string]float64, cooldown time.Duration) *Engine {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	severity := make(map[string]Level, len(thresholds))
	for metric := range thresholds {
		severity[metric] = defaultSeverity(metric)
	}
	return &Engine{
		thresholds: thresholds,
		severity:   severity,
		cooldown:   cooldown,
		lastRaised: make(map[string]time.Time),
	}
}

// Check evaluates one sample and returns the newly raised alerts, already
// appended to the log. Out-of-range readings never fail; they simply breach.
func (e *Engine) Check(s metrics.Snapshot) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	at := s.Timestamp
	if at.IsZero() {
		at = time.Now().UTC()
	}

	var raised []Alert
	for _, c := range []struct {
		metric string
		value  float64
		unit   string
	}{
		{MetricCPU, s.CPUPercent, "%"},
		{MetricGPU, s.GPUPercent, "%"},
		{MetricMemory, s.RAMPercent, "%"},
		{MetricTemperature, s.TemperatureCelsius, "C"},
		{MetricLatency, s.LatencyMs, "ms"},
		{MetricPacketLoss, s.PacketLossPercent, "%"},
	} {
		threshold, ok := e.thresholds[c.metric]
		if !ok || c.value <= threshold {
			continue
		}
		if e.cooldown > 0 {
			if last, seen := e.lastRaised[c.metric]; seen && at.Sub(last) < e.cooldown {
				e.suppressed++
				continue
			}
		}

		msg := fmt.Sprintf("%s at %.1f%s exceeds threshold %.1f%s", c.metric, c.value, c.unit, threshold, c.unit)
		alert := newAlert(e.severity[c.metric], msg, c.metric, c.value, threshold, at)
		e.append(alert)
		e.lastRaised[c.metric] = at
		raised = append(raised, alert)
	}

	return raised
}

// append adds an alert to the log, evicting the oldest entry at capacity.
func (e *Engine) append(a Alert) {
	if len(e.log) >= maxAlertLog {
		copy(e.log, e.log[1:])
		e.log = e.log[:maxAlertLog-1]
	}
	e.log = append(e.log, a)
}

// Acknowledge marks an alert as acknowledged. Returns false when the ID is
// unknown. Acknowledging twice is a no-op, not an error.
func (e *Engine) Acknowledge(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.log {
		if e.log[i].ID == id {
			e.log[i].Acknowledged = true
			return true
		}
	}
	return false
}

// Recent returns up to limit alerts, newest first.
func (e *Engine) Recent(limit int) []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := len(e.log)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Alert, 0, n)
	for i := len(e.log) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, e.log[i])
	}
	return out
}

// Active returns all unacknowledged alerts, newest first.
func (e *Engine) Active() []Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alert, 0)
	for i := len(e.log) - 1; i >= 0; i-- {
		if !e.log[i].Acknowledged {
			out = append(out, e.log[i])
		}
	}
	return out
}

// SetThreshold updates a breach limit. Returns false for unknown metrics;
// new metrics are never created at runtime.
func (e *Engine) SetThreshold(metric string, value float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.thresholds[metric]; !ok {
		return false
	}
	e.thresholds[metric] = value
	return true
}

// Thresholds returns a copy of the current breach limits.
func (e *Engine) Thresholds() map[string]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]float64, len(e.thresholds))
	for k, v := range e.thresholds {
		out[k] = v
	}
	return out
}

// Suppressed returns how many breaches the cooldown window has swallowed.
func (e *Engine) Suppressed() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.suppressed
}

// Cooldown returns the configured repeat-suppression window.
func (e *Engine) Cooldown() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cooldown
}
