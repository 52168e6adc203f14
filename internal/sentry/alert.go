// Package sentry watches incoming samples for threshold breaches and keeps
// a bounded in-memory alert log alongside the persisted history.
package sentry

import (
	"time"

	"github.com/google/uuid"
)

// TopicAlert is published once per newly raised alert. Payload: Alert.
const TopicAlert = "sentry.alert"

// Level classifies an alert's severity.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// Alert records a single threshold breach. Value and Threshold capture the
// observed reading and the limit it crossed at raise time.
type Alert struct {
	ID           string    `json:"id"`
	Level        Level     `json:"level"`
	Message      string    `json:"message"`
	Metric       string    `json:"metric"`
	Value        float64   `json:"value"`
	Threshold    float64   `json:"threshold"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

func newAlert(level Level, message, metric string, value, threshold float64, at time.Time) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Metric:    metric,
		Value:     value,
		Threshold: threshold,
		Timestamp: at,
	}
}
