//go:build !linux

package probe

import (
	"context"

	"go.uber.org/zap"
)

// stubCollector is used on platforms without a /proc-style metrics source.
// All readings stay at zero; Normalized snapshots still score Excellent so
// the pipeline keeps working with network data only.
type stubCollector struct {
	logger *zap.Logger
}

var _ SystemCollector = (*stubCollector)(nil)

func newPlatformCollector(logger *zap.Logger) SystemCollector {
	logger.Warn("system metrics are not supported on this platform")
	return &stubCollector{logger: logger}
}

func (c *stubCollector) Collect(ctx context.Context) SystemStats {
	return SystemStats{}
}
