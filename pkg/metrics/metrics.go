// Package metrics provides the shared metric snapshot types consumed by
// every GamePulse module. This package is part of the public plugin SDK.
package metrics

import "time"

// Neutral defaults substituted when a collector cannot measure a field.
// A defaulted snapshot must never look degraded to downstream scoring.
const (
	DefaultLatencyMs         = 25.0
	DefaultPacketLossPercent = 0.1
	DefaultBandwidthMbps     = 100.0
)

// Snapshot is an immutable record of one sampling instant. Produced by the
// probe plugin; consumed read-only by the advisor, sentry and perf modules.
// Fields a collector could not measure hold the documented neutral default,
// so the decision pipeline never observes collection failures.
type Snapshot struct {
	// Network fields.
	LatencyMs         float64 `json:"latency_ms"`
	JitterMs          float64 `json:"jitter_ms"`
	PacketLossPercent float64 `json:"packet_loss_percent"`
	BandwidthMbps     float64 `json:"bandwidth_mbps"`

	// System fields.
	CPUPercent         float64 `json:"cpu_percent"`
	GPUPercent         float64 `json:"gpu_percent"`
	RAMPercent         float64 `json:"ram_percent"`
	DiskPercent        float64 `json:"disk_percent"`
	TemperatureCelsius float64 `json:"temperature_celsius"`

	Timestamp time.Time `json:"timestamp"`
}

// Defaults returns the best-effort snapshot used when the metrics source is
// entirely unavailable. Latency is set to a typical residential value rather
// than zero so the quality scorer treats it as neutral, not perfect.
func Defaults() Snapshot {
	return Snapshot{
		LatencyMs:         DefaultLatencyMs,
		PacketLossPercent: DefaultPacketLossPercent,
		BandwidthMbps:     DefaultBandwidthMbps,
		Timestamp:         time.Now().UTC(),
	}
}

// Normalized returns a copy with absent fields replaced by neutral values.
// A latency of exactly zero means "not measured" (no real link pings at
// 0ms); it is replaced so a partial snapshot cannot spuriously score Poor.
// Zero is a legitimate reading for every other field.
func (s Snapshot) Normalized() Snapshot {
	if s.LatencyMs == 0 {
		s.LatencyMs = DefaultLatencyMs
	}
	return s
}
