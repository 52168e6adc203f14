package advisor

import "sync"

// Rule names accepted by RuleSet.Set. Unknown names are rejected.
const (
	RuleCPUThreshold         = "cpu_threshold"
	RuleGPUThreshold         = "gpu_threshold"
	RuleMemoryThreshold      = "memory_threshold"
	RuleTemperatureThreshold = "temperature_threshold"
	RuleLatencyThreshold     = "latency_threshold"
	RulePacketLossThreshold  = "packet_loss_threshold"
)

// RuleSet holds the named numeric thresholds the engine evaluates against.
// Thresholds may be updated at runtime; updates take effect on the next
// evaluation, never retroactively.
type RuleSet struct {
	mu    sync.RWMutex
	rules map[string]float64
}

// DefaultRules returns a RuleSet with the stock thresholds. The resource
// cutoffs match the Fair quality band so a snapshot that scores Fair on a
// resource also draws a high-priority recommendation for it.
func DefaultRules() *RuleSet {
	return &RuleSet{
		rules: map[string]float64{
			RuleCPUThreshold:         80,
			RuleGPUThreshold:         85,
			RuleMemoryThreshold:      80,
			RuleTemperatureThreshold: 80,
			RuleLatencyThreshold:     100,
			RulePacketLossThreshold:  1.0,
		},
	}
}

// Set updates a single threshold. Returns false for unknown rule names;
// it never creates new rules and never fails otherwise.
func (r *RuleSet) Set(name string, value float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[name]; !ok {
		return false
	}
	r.rules[name] = value
	return true
}

// Get returns a threshold by name.
func (r *RuleSet) Get(name string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.rules[name]
	return v, ok
}

// All returns a copy of every rule, safe for the caller to mutate.
func (r *RuleSet) All() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.rules))
	for k, v := range r.rules {
		out[k] = v
	}
	return out
}

// snapshot returns the thresholds as a plain struct so one evaluation sees
// a single consistent view even while rules are being updated.
func (r *RuleSet) snapshot() thresholds {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return thresholds{
		cpu:        r.rules[RuleCPUThreshold],
		gpu:        r.rules[RuleGPUThreshold],
		memory:     r.rules[RuleMemoryThreshold],
		latency:    r.rules[RuleLatencyThreshold],
		packetLoss: r.rules[RulePacketLossThreshold],
	}
}

type thresholds struct {
	cpu        float64
	gpu        float64
	memory     float64
	latency    float64
	packetLoss float64
}
