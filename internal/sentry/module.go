package sentry

import (
	"context"
	"fmt"
	"time"

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

// Module implements the sentry plugin.
type Module struct {
	logger *zap.Logger
	bus    plugin.EventBus
	store  *AlertStore
	engine *Engine

	retention   time.Duration
	unsubscribe func()
}

// New creates a new sentry plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:         "sentry",
		Version:      "0.1.0",
		Description:  "Threshold breach alerting",
		Dependencies: []string{"probe"},
		Roles:        []string{"alerting"},
		APIVersion:   plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	thresholds := DefaultThresholds()
	var cooldown time.Duration
	m.retention = 7 * 24 * time.Hour
	if cfg := deps.Config; cfg != nil {
		for metric := range thresholds {
			if cfg.IsSet("thresholds." + metric) {
				thresholds[metric] = cfg.GetFloat64("thresholds." + metric)
			}
		}
		if cfg.IsSet("cooldown") {
			cooldown = cfg.GetDuration("cooldown")
		}
		if cfg.IsSet("retention") {
			m.retention = cfg.GetDuration("retention")
		}
	}
	m.engine = NewEngine(thresholds, cooldown)

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "sentry", migrations()); err != nil {
			return fmt.Errorf("sentry migrations: %w", err)
		}
		m.store = NewAlertStore(deps.Store.DB())
	}

	m.logger.Info("sentry module initialized",
		zap.Any("thresholds", thresholds),
		zap.Duration("cooldown", cooldown),
	)
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	if m.bus != nil {
		m.unsubscribe = m.bus.Subscribe(probe.TopicSample, m.onSample)
	}
	m.logger.Info("sentry module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.logger.Info("sentry module stopped")
	return nil
}

// Engine exposes the alert engine to the composition root.
func (m *Module) Engine() *Engine {
	return m.engine
}

// onSample checks one snapshot, persisting and republishing every newly
// raised alert.
func (m *Module) onSample(ctx context.Context, event plugin.Event) {
	snap, ok := event.Payload.(metrics.Snapshot)
	if !ok {
		return
	}

	raised := m.engine.Check(snap)
	for _, alert := range raised {
		m.logger.Warn("alert raised",
			zap.String("metric", alert.Metric),
			zap.String("level", string(alert.Level)),
			zap.Float64("value", alert.Value),
			zap.Float64("threshold", alert.Threshold),
		)

		if m.store != nil {
			if err := m.store.InsertAlert(ctx, alert); err != nil {
				m.logger.Debug("alert persist failed", zap.Error(err))
			}
		}
		if m.bus != nil {
			m.bus.PublishAsync(ctx, plugin.Event{
				Topic:     TopicAlert,
				Source:    "sentry",
				Timestamp: alert.Timestamp,
				Payload:   alert,
			})
		}
	}

	if len(raised) > 0 && m.store != nil {
		if err := m.store.PruneAlerts(ctx, time.Now().UTC().Add(-m.retention)); err != nil {
			m.logger.Debug("alert prune failed", zap.Error(err))
		}
	}
}
