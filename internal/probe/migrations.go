package probe

import (
	"database/sql"

	"github.com/gamepulse/gamepulse/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create probe sample history table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS probe_samples (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						latency_ms REAL NOT NULL,
						jitter_ms REAL NOT NULL,
						packet_loss_percent REAL NOT NULL,
						bandwidth_mbps REAL NOT NULL,
						cpu_percent REAL NOT NULL,
						gpu_percent REAL NOT NULL,
						ram_percent REAL NOT NULL,
						disk_percent REAL NOT NULL,
						temperature_celsius REAL NOT NULL,
						sampled_at DATETIME NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS idx_probe_samples_time ON probe_samples(sampled_at)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
