package probe

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/gamepulse/gamepulse/pkg/metrics"
	"github.com/gamepulse/gamepulse/pkg/plugin"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/snapshot", Handler: m.handleSnapshot},
		{Method: "GET", Path: "/history", Handler: m.handleHistory},
	}
}

// handleSnapshot returns the latest sample.
//
//	@Summary		Current snapshot
//	@Description	Returns the most recent combined network and system sample.
//	@Tags			probe
//	@Produce		json
//	@Success		200 {object} metrics.Snapshot
//	@Router			/probe/snapshot [get]
func (m *Module) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.Latest())
}

// handleHistory returns persisted samples, newest first.
//
//	@Summary		Sample history
//	@Description	Returns up to limit persisted samples, newest first.
//	@Tags			probe
//	@Produce		json
//	@Param			limit query int false "Maximum samples to return (default 100, max 1000)"
//	@Success		200 {array} metrics.Snapshot
//	@Failure		503 {object} map[string]any
//	@Router			/probe/history [get]
func (m *Module) handleHistory(w http.ResponseWriter, r *http.Request) {
	if m.store == nil {
		writeError(w, http.StatusServiceUnavailable, "sample history is not available")
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"), 100, 1000)
	samples, err := m.store.RecentSamples(r.Context(), limit)
	if err != nil {
		m.logger.Error("history query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load sample history")
		return
	}
	if samples == nil {
		samples = []metrics.Snapshot{}
	}
	writeJSON(w, http.StatusOK, samples)
}

// parseLimit parses a limit query value, clamping to (0, max].
func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
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
