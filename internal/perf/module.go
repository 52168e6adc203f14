package perf

import (
	"context"

	"go.uber.org/zap"

	"github.com/gamepulse/gamepulse/internal/probe"
	"github.com/gamepulse/gamepulse/pkg/metrics"
	"github.com/gamepulse/gamepulse/pkg/plugin"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin       = (*Module)(nil)
	_ plugin.HTTPProvider = (*Module)(nil)
)

// Module implements the perf plugin.
type Module struct {
	logger  *zap.Logger
	bus     plugin.EventBus
	monitor *Monitor

	unsubscribe func()
}

// New creates a new perf plugin instance.
func New() *Module {
	return &Module{monitor: NewMonitor()}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "perf",
		Version:      "0.1.0",
		Description:  "Latency and frame rate trend tracking",
		Dependencies: []string{"probe"},
		Roles:        []string{"analysis"},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus
	m.logger.Info("perf module initialized")
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	if m.bus != nil {
		m.unsubscribe = m.bus.Subscribe(probe.TopicSample, m.onSample)
	}
	m.logger.Info("perf module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.logger.Info("perf module stopped")
	return nil
}

// Monitor exposes the tracker to the composition root.
func (m *Module) Monitor() *Monitor {
	return m.monitor
}

func (m *Module) onSample(_ context.Context, event plugin.Event) {
	snap, ok := event.Payload.(metrics.Snapshot)
	if !ok {
		return
	}
	m.monitor.Record(snap)
}
