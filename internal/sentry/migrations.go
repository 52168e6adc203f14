package sentry

import (
	"database/sql"

	"github.com/gamepulse/gamepulse/pkg/plugin"
)

func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create alert history table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS sentry_alerts (
						id TEXT PRIMARY KEY,
						level TEXT NOT NULL,
						message TEXT NOT NULL,
						metric TEXT NOT NULL,
						value REAL NOT NULL,
						threshold REAL NOT NULL,
						raised_at DATETIME NOT NULL,
						acknowledged_at DATETIME
					)`,
					`CREATE INDEX IF NOT EXISTS idx_sentry_alerts_time ON sentry_alerts(raised_at)`,
					`CREATE INDEX IF NOT EXISTS idx_sentry_alerts_metric ON sentry_alerts(metric, raised_at)`,
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
