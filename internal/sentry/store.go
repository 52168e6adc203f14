package sentry

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AlertStore persists alert history for the sentry plugin.
type AlertStore struct {
	db *sql.DB
}

// NewAlertStore creates a store backed by the given database.
func NewAlertStore(db *sql.DB) *AlertStore {
	return &AlertStore{db: db}
}

// InsertAlert records a newly raised alert.
func (s *AlertStore) InsertAlert(ctx context.Context, a Alert) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sentry_alerts (id, level, message, metric, value, threshold, raised_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Level), a.Message, a.Metric, a.Value, a.Threshold, a.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// AcknowledgeAlert stamps an alert as acknowledged. Returns false when the
// ID is unknown. Already-acknowledged alerts keep their original stamp.
func (s *AlertStore) AcknowledgeAlert(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE sentry_alerts
		SET acknowledged_at = COALESCE(acknowledged_at, ?)
		WHERE id = ?`, at, id)
	if err != nil {
		return false, fmt.Errorf("acknowledge alert %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("acknowledge alert %s: %w", id, err)
	}
	return n > 0, nil
}

// RecentAlerts returns up to limit alerts, newest first.
func (s *AlertStore) RecentAlerts(ctx context.Context, limit int) ([]Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, message, metric, value, threshold, raised_at, acknowledged_at
		FROM sentry_alerts
		ORDER BY raised_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		var a Alert
		var level string
		var ackedAt sql.NullTime
		if err := rows.Scan(&a.ID, &level, &a.Message, &a.Metric, &a.Value, &a.Threshold, &a.Timestamp, &ackedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		a.Level = Level(level)
		a.Acknowledged = ackedAt.Valid
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// PruneAlerts deletes alert rows older than the given cutoff.
func (s *AlertStore) PruneAlerts(ctx context.Context, before time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM sentry_alerts WHERE raised_at < ?`, before)
	if err != nil {
		return fmt.Errorf("prune alerts: %w", err)
	}
	return nil
}
