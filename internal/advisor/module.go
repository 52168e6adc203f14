// Package advisor evaluates metric snapshots against configurable rule
// thresholds and produces prioritized tuning recommendations.
package advisor

import (
	"context"
	"sync"

	"github.com/gamepulse/gamepulse/internal/probe"
	"github.com/gamepulse/gamepulse/internal/quality"
	"github.com/gamepulse/gamepulse/pkg/metrics"
	"github.com/gamepulse/gamepulse/pkg/plugin"
	"go.uber.org/zap"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin       = (*Module)(nil)
	_ plugin.HTTPProvider = (*Module)(nil)
)

// Module implements the advisor plugin.
type Module struct {
	logger *zap.Logger
	config plugin.Config
	bus    plugin.EventBus
	engine *Engine

	mu     sync.RWMutex
	latest *Result

	unsubscribe func()
}

// New creates a new advisor plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "advisor",
		Version:      "0.1.0",
		Description:  "Threshold-based quality recommendations",
		Dependencies: []string{"probe"},
		Roles:        []string{"optimization"},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.config = deps.Config
	m.logger = deps.Logger
	m.bus = deps.Bus

	rules := DefaultRules()
	// Allow config to override individual thresholds at startup.
	for name := range rules.All() {
		if m.config != nil && m.config.IsSet("rules."+name) {
			rules.Set(name, m.config.GetFloat64("rules."+name))
		}
	}
	m.engine = NewEngine(rules)

	m.logger.Info("advisor module initialized", zap.Any("rules", rules.All()))
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	if m.bus != nil {
		m.unsubscribe = m.bus.Subscribe(probe.TopicSample, m.onSample)
	}
	m.logger.Info("advisor module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.logger.Info("advisor module stopped")
	return nil
}

// Engine exposes the recommendation engine to the composition root.
func (m *Module) Engine() *Engine {
	return m.engine
}

// onSample runs one optimization pass per published snapshot and caches the
// result for the HTTP handlers.
func (m *Module) onSample(_ context.Context, event plugin.Event) {
	snap, ok := event.Payload.(metrics.Snapshot)
	if !ok {
		return
	}

	result := m.engine.Optimize(snap)

	m.mu.Lock()
	m.latest = &result
	m.mu.Unlock()

	if len(result.Recommendations) > 0 {
		m.logger.Debug("recommendations generated",
			zap.Int("count", len(result.Recommendations)),
			zap.String("quality", result.CurrentQuality.String()),
		)
	}
}

// latestResult returns the most recent optimization result, or a pass over
// the neutral default snapshot when no sample has been observed yet.
func (m *Module) latestResult() Result {
	m.mu.RLock()
	if m.latest != nil {
		defer m.mu.RUnlock()
		return *m.latest
	}
	m.mu.RUnlock()

	// Evaluate directly rather than Optimize so a status read does not
	// count as an optimization run.
	snap := metrics.Defaults()
	return Result{
		Timestamp:       snap.Timestamp,
		CurrentQuality:  quality.Score(snap),
		Recommendations: m.engine.Evaluate(snap),
	}
}
