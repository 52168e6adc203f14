// Package probe samples network and system conditions on a fixed interval
// and publishes the combined snapshot on the event bus for the other
// modules to consume.
package probe

import (
	"context"

	"go.uber.org/zap"
)

// TopicSample is published once per sampling tick. Payload: metrics.Snapshot.
const TopicSample = "probe.sample"

// SystemStats holds the host-side resource readings for one sample.
type SystemStats struct {
	CPUPercent         float64
	GPUPercent         float64
	RAMPercent         float64
	DiskPercent        float64
	TemperatureCelsius float64
}

// SystemCollector reads host resource usage. Implementations never fail the
// whole collection; unreadable sources leave their fields at zero.
type SystemCollector interface {
	Collect(ctx context.Context) SystemStats
}

// NewSystemCollector returns the collector for the current platform.
func NewSystemCollector(logger *zap.Logger) SystemCollector {
	return newPlatformCollector(logger)
}
