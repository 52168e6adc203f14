package probe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/gamepulse/gamepulse/pkg/metrics"
	"github.com/gamepulse/gamepulse/pkg/plugin"
)

// Prometheus sample gauges, updated once per tick.
var (
	latencyGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gamepulse_latency_ms",
		Help: "Most recent round-trip latency to the probe target in milliseconds.",
	})
	jitterGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gamepulse_jitter_ms",
		Help: "Latency standard deviation over the recent probe window.",
	})
	packetLossGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gamepulse_packet_loss_percent",
		Help: "Most recent probe packet loss percentage.",
	})
	cpuGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gamepulse_cpu_percent",
		Help: "Most recent host CPU utilization.",
	})
	ramGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gamepulse_ram_percent",
		Help: "Most recent host memory utilization.",
	})
)

func init() {
	prometheus.MustRegister(latencyGauge)
	prometheus.MustRegister(jitterGauge)
	prometheus.MustRegister(packetLossGauge)
	prometheus.MustRegister(cpuGauge)
	prometheus.MustRegister(ramGauge)
}

// Sampling defaults, overridable via the probe config section.
const (
	defaultTarget      = "8.8.8.8"
	defaultInterval    = 2 * time.Second
	defaultPingCount   = 3
	defaultPingTimeout = 1 * time.Second
	defaultHistoryKeep = 10000
)

// Compile-time interface guards.
var (
	_ plugin.Plugin         = (*Module)(nil)
	_ plugin.HTTPProvider   = (*Module)(nil)
	_ plugin.HealthReporter = (*Module)(nil)
	_ plugin.Validator      = (*Module)(nil)
)

// Module implements the probe plugin.
type Module struct {
	logger *zap.Logger
	bus    plugin.EventBus
	store  *SampleStore

	target      string
	interval    time.Duration
	pingCount   int
	pingTimeout time.Duration
	historyKeep int

	prober    *NetworkProber
	collector SystemCollector

	mu     sync.RWMutex
	latest *metrics.Snapshot

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a new probe plugin instance.
func New() *Module {
	return &Module{}
}

func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "probe",
		Version:     "0.1.0",
		Description: "Network and system condition sampling",
		Required:    true,
		Roles:       []string{"collector"},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.logger = deps.Logger
	m.bus = deps.Bus

	m.target = defaultTarget
	m.interval = defaultInterval
	m.pingCount = defaultPingCount
	m.pingTimeout = defaultPingTimeout
	m.historyKeep = defaultHistoryKeep
	if cfg := deps.Config; cfg != nil {
		if cfg.IsSet("target") {
			m.target = cfg.GetString("target")
		}
		if cfg.IsSet("interval") {
			m.interval = cfg.GetDuration("interval")
		}
		if cfg.IsSet("ping_count") {
			m.pingCount = cfg.GetInt("ping_count")
		}
		if cfg.IsSet("ping_timeout") {
			m.pingTimeout = cfg.GetDuration("ping_timeout")
		}
		if cfg.IsSet("history_keep") {
			m.historyKeep = cfg.GetInt("history_keep")
		}
	}

	if deps.Store != nil {
		if err := deps.Store.Migrate(ctx, "probe", migrations()); err != nil {
			return fmt.Errorf("probe migrations: %w", err)
		}
		m.store = NewSampleStore(deps.Store.DB())
	}

	m.prober = NewNetworkProber(m.target, m.pingCount, m.pingTimeout, m.logger)
	m.collector = NewSystemCollector(m.logger)

	m.logger.Info("probe module initialized",
		zap.String("target", m.target),
		zap.Duration("interval", m.interval),
	)
	return nil
}

// ValidateConfig rejects settings the sampling loop cannot run with.
func (m *Module) ValidateConfig() error {
	if m.target == "" {
		return fmt.Errorf("probe target must not be empty")
	}
	if m.interval <= 0 {
		return fmt.Errorf("probe interval must be positive, got %s", m.interval)
	}
	if m.pingTimeout >= m.interval {
		return fmt.Errorf("ping timeout %s must be shorter than the interval %s", m.pingTimeout, m.interval)
	}
	return nil
}

func (m *Module) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.run(loopCtx)

	m.logger.Info("probe module started")
	return nil
}

func (m *Module) Stop(ctx context.Context) error {
	if m.cancel != nil {
		m.cancel()
		select {
		case <-m.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.logger.Info("probe module stopped")
	return nil
}

// run is the sampling loop. One sample is taken immediately so consumers
// do not wait a full interval after startup.
func (m *Module) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sample(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sample(ctx)
		}
	}
}

// sample takes one combined reading, caches it, publishes it and persists
// it best-effort.
func (m *Module) sample(ctx context.Context) {
	sampleCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	net := m.prober.Probe(sampleCtx)
	sys := m.collector.Collect(sampleCtx)

	snap := metrics.Snapshot{
		LatencyMs:          net.LatencyMs,
		JitterMs:           net.JitterMs,
		PacketLossPercent:  net.PacketLossPercent,
		BandwidthMbps:      net.BandwidthMbps,
		CPUPercent:         sys.CPUPercent,
		GPUPercent:         sys.GPUPercent,
		RAMPercent:         sys.RAMPercent,
		DiskPercent:        sys.DiskPercent,
		TemperatureCelsius: sys.TemperatureCelsius,
		Timestamp:          time.Now().UTC(),
	}

	m.mu.Lock()
	m.latest = &snap
	m.mu.Unlock()

	latencyGauge.Set(snap.LatencyMs)
	jitterGauge.Set(snap.JitterMs)
	packetLossGauge.Set(snap.PacketLossPercent)
	cpuGauge.Set(snap.CPUPercent)
	ramGauge.Set(snap.RAMPercent)

	if m.bus != nil {
		m.bus.PublishAsync(ctx, plugin.Event{
			Topic:     TopicSample,
			Source:    "probe",
			Timestamp: snap.Timestamp,
			Payload:   snap,
		})
	}

	if m.store != nil {
		if err := m.store.InsertSample(sampleCtx, snap); err != nil {
			m.logger.Debug("sample persist failed", zap.Error(err))
		} else if err := m.store.PruneSamples(sampleCtx, m.historyKeep); err != nil {
			m.logger.Debug("sample prune failed", zap.Error(err))
		}
	}
}

// Latest returns the most recent snapshot, or the neutral defaults before
// the first sample completes.
func (m *Module) Latest() metrics.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return metrics.Defaults()
	}
	return *m.latest
}

// Health reports degraded until the first sample has been taken.
func (m *Module) Health(ctx context.Context) plugin.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return plugin.HealthStatus{
			Status:  "degraded",
			Message: "no sample collected yet",
		}
	}
	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"last_sample": m.latest.Timestamp.Format(time.RFC3339),
		},
	}
}
