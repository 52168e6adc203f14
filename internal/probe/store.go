package probe

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gamepulse/gamepulse/pkg/metrics"
)

// SampleStore persists snapshot history for the probe plugin.
type SampleStore struct {
	db *sql.DB
}

// NewSampleStore creates a store backed by the given database.
func NewSampleStore(db *sql.DB) *SampleStore {
	return &SampleStore{db: db}
}

// InsertSample records one snapshot.
func (s *SampleStore) InsertSample(ctx context.Context, snap metrics.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO probe_samples (
			latency_ms, jitter_ms, packet_loss_percent, bandwidth_mbps,
			cpu_percent, gpu_percent, ram_percent, disk_percent,
			temperature_celsius, sampled_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.LatencyMs, snap.JitterMs, snap.PacketLossPercent, snap.BandwidthMbps,
		snap.CPUPercent, snap.GPUPercent, snap.RAMPercent, snap.DiskPercent,
		snap.TemperatureCelsius, snap.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// RecentSamples returns up to limit snapshots, newest first.
func (s *SampleStore) RecentSamples(ctx context.Context, limit int) ([]metrics.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT latency_ms, jitter_ms, packet_loss_percent, bandwidth_mbps,
		       cpu_percent, gpu_percent, ram_percent, disk_percent,
		       temperature_celsius, sampled_at
		FROM probe_samples
		ORDER BY sampled_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var samples []metrics.Snapshot
	for rows.Next() {
		var snap metrics.Snapshot
		if err := rows.Scan(
			&snap.LatencyMs, &snap.JitterMs, &snap.PacketLossPercent, &snap.BandwidthMbps,
			&snap.CPUPercent, &snap.GPUPercent, &snap.RAMPercent, &snap.DiskPercent,
			&snap.TemperatureCelsius, &snap.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, snap)
	}
	return samples, rows.Err()
}

// PruneSamples deletes samples older than the newest keep rows.
func (s *SampleStore) PruneSamples(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM probe_samples
		WHERE id NOT IN (
			SELECT id FROM probe_samples ORDER BY sampled_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune samples: %w", err)
	}
	return nil
}
