package probe

import (
	"context"
	"fmt"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"

	"github.com/gamepulse/gamepulse/internal/rolling"
	"github.com/gamepulse/gamepulse/pkg/metrics"
)

// NetworkStats holds the network-side readings for one sample.
type NetworkStats struct {
	LatencyMs         float64
	JitterMs          float64
	PacketLossPercent float64
	BandwidthMbps     float64
}

// NetworkProber pings a fixed target with ICMP and derives latency, jitter
// and packet loss. Jitter is the standard deviation over the recent latency
// history, so it needs a few probes to become meaningful.
type NetworkProber struct {
	target      string
	pingCount   int
	pingTimeout time.Duration
	logger      *zap.Logger

	// history is only touched from the module's sampling goroutine.
	history *rolling.Buffer
}

// NewNetworkProber creates a prober against the given target host.
func NewNetworkProber(target string, pingCount int, pingTimeout time.Duration, logger *zap.Logger) *NetworkProber {
	if pingCount < 1 {
		pingCount = 1
	}
	return &NetworkProber{
		target:      target,
		pingCount:   pingCount,
		pingTimeout: pingTimeout,
		logger:      logger,
		history:     rolling.New(rolling.DefaultLatencyCapacity),
	}
}

// Probe runs one ICMP round against the target. On any failure it returns
// the neutral defaults so a dead network still yields a usable sample.
func (p *NetworkProber) Probe(ctx context.Context) NetworkStats {
	latency, loss, err := p.ping(ctx)
	if err != nil {
		p.logger.Debug("network probe failed", zap.String("target", p.target), zap.Error(err))
		return NetworkStats{
			LatencyMs:         metrics.DefaultLatencyMs,
			JitterMs:          0,
			PacketLossPercent: metrics.DefaultPacketLossPercent,
			BandwidthMbps:     metrics.DefaultBandwidthMbps,
		}
	}

	p.history.Record(latency)

	return NetworkStats{
		LatencyMs:         latency,
		JitterMs:          p.history.StdDev(),
		PacketLossPercent: loss,
		BandwidthMbps:     metrics.DefaultBandwidthMbps,
	}
}

// ping sends the configured number of ICMP echoes and returns the average
// RTT in milliseconds plus the loss percentage.
func (p *NetworkProber) ping(ctx context.Context) (latencyMs, lossPercent float64, err error) {
	pinger, err := probing.NewPinger(p.target)
	if err != nil {
		return 0, 0, fmt.Errorf("create pinger for %s: %w", p.target, err)
	}

	pinger.Count = p.pingCount
	pinger.Timeout = p.pingTimeout
	pinger.SetPrivileged(runtime.GOOS == "windows")

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			p.logger.Debug("ping failed", zap.String("target", p.target), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return 0, 0, ctx.Err()
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, 0, fmt.Errorf("no echo reply from %s", p.target)
	}

	return float64(stats.AvgRtt) / float64(time.Millisecond), stats.PacketLoss, nil
}
