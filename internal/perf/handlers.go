package perf

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gamepulse/gamepulse/pkg/plugin"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/stats", Handler: m.handleStats},
		{Method: "GET", Path: "/trends", Handler: m.handleTrends},
		{Method: "GET", Path: "/history", Handler: m.handleHistory},
		{Method: "POST", Path: "/frames", Handler: m.handleRecordFrame},
	}
}

// handleStats returns the window summary.
//
//	@Summary		Performance stats
//	@Description	Returns latency and frame rate aggregates over the tracked windows.
//	@Tags			perf
//	@Produce		json
//	@Success		200 {object} Stats
//	@Router			/perf/stats [get]
func (m *Module) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.monitor.Stats())
}

// handleTrends returns the per-window trend classification.
//
//	@Summary		Performance trends
//	@Description	Returns the direction of movement for each tracked window.
//	@Tags			perf
//	@Produce		json
//	@Success		200 {object} map[string]string
//	@Router			/perf/trends [get]
func (m *Module) handleTrends(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.monitor.Trends())
}

// handleHistory returns recorded observation pairs, oldest first.
//
//	@Summary		Observation history
//	@Description	Returns up to limit latency and frame rate pairs, oldest first.
//	@Tags			perf
//	@Produce		json
//	@Param			limit query int false "Maximum points to return (default 100)"
//	@Success		200 {array} HistoryPoint
//	@Router			/perf/history [get]
func (m *Module) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	points := m.monitor.History(limit)
	if points == nil {
		points = []HistoryPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}

type recordFrameRequest struct {
	FPS float64 `json:"fps"`
}

// handleRecordFrame ingests a client-reported frame rate.
//
//	@Summary		Report frame rate
//	@Description	Records a frame rate measured by the game client, replacing the estimate.
//	@Tags			perf
//	@Accept			json
//	@Success		204
//	@Failure		400 {object} map[string]any
//	@Router			/perf/frames [post]
func (m *Module) handleRecordFrame(w http.ResponseWriter, r *http.Request) {
	var req recordFrameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FPS <= 0 {
		writeError(w, http.StatusBadRequest, "fps must be a positive number")
		return
	}
	m.monitor.RecordFrame(req.FPS)
	w.WriteHeader(http.StatusNoContent)
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
