package sentry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gamepulse/gamepulse/pkg/plugin"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/alerts", Handler: m.handleAlerts},
		{Method: "GET", Path: "/alerts/active", Handler: m.handleActiveAlerts},
		{Method: "POST", Path: "/alerts/{id}/ack", Handler: m.handleAcknowledge},
		{Method: "GET", Path: "/config", Handler: m.handleConfig},
		{Method: "PUT", Path: "/thresholds/{name}", Handler: m.handleSetThreshold},
	}
}

// handleAlerts returns recent alerts, newest first.
//
//	@Summary		Recent alerts
//	@Description	Returns up to limit alerts from the in-memory log, newest first.
//	@Tags			sentry
//	@Produce		json
//	@Param			limit query int false "Maximum alerts to return (default 100, max 1000)"
//	@Success		200 {array} Alert
//	@Router			/sentry/alerts [get]
func (m *Module) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxAlertLog {
		limit = maxAlertLog
	}
	writeJSON(w, http.StatusOK, m.engine.Recent(limit))
}

// handleActiveAlerts returns all unacknowledged alerts.
//
//	@Summary		Active alerts
//	@Description	Returns all unacknowledged alerts, newest first.
//	@Tags			sentry
//	@Produce		json
//	@Success		200 {array} Alert
//	@Router			/sentry/alerts/active [get]
func (m *Module) handleActiveAlerts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.engine.Active())
}

// handleAcknowledge marks one alert as acknowledged.
//
//	@Summary		Acknowledge alert
//	@Description	Marks an alert as acknowledged. Repeat calls are no-ops.
//	@Tags			sentry
//	@Produce		json
//	@Param			id path string true "Alert ID"
//	@Success		200 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/sentry/alerts/{id}/ack [post]
func (m *Module) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "alert id is required")
		return
	}

	found := m.engine.Acknowledge(id)
	if m.store != nil {
		if stored, err := m.store.AcknowledgeAlert(r.Context(), id, time.Now().UTC()); err == nil {
			found = found || stored
		}
	}
	if !found {
		writeError(w, http.StatusNotFound, "unknown alert: "+id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true})
}

type configResponse struct {
	Thresholds map[string]float64 `json:"thresholds"`
	Cooldown   string             `json:"cooldown"`
	Suppressed int                `json:"suppressed"`
}

// handleConfig returns the live alerting configuration.
//
//	@Summary		Alerting config
//	@Description	Returns current thresholds and the repeat-suppression cooldown.
//	@Tags			sentry
//	@Produce		json
//	@Success		200 {object} configResponse
//	@Router			/sentry/config [get]
func (m *Module) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		Thresholds: m.engine.Thresholds(),
		Cooldown:   m.engine.Cooldown().String(),
		Suppressed: m.engine.Suppressed(),
	})
}

type setThresholdRequest struct {
	Value float64 `json:"value"`
}

// handleSetThreshold updates one breach limit.
//
//	@Summary		Update threshold
//	@Description	Sets a metric's breach limit. Takes effect on the next sample.
//	@Tags			sentry
//	@Accept			json
//	@Produce		json
//	@Param			name path string true "Metric name"
//	@Param			body body setThresholdRequest true "New limit"
//	@Success		200 {object} map[string]float64
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/sentry/thresholds/{name} [put]
func (m *Module) handleSetThreshold(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "metric name is required")
		return
	}

	var req setThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !m.engine.SetThreshold(name, req.Value) {
		writeError(w, http.StatusNotFound, "unknown metric: "+name)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{name: req.Value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an RFC 7807 problem detail response.
func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   "https://gamepulse.dev/problems/" + http.StatusText(status),
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
