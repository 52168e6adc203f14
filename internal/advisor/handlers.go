package advisor

import (
	"encoding/json"
	"net/http"

	"github.com/gamepulse/gamepulse/pkg/plugin"
	"go.uber.org/zap"
)

// Routes implements plugin.HTTPProvider.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: "GET", Path: "/recommendations", Handler: m.handleRecommendations},
		{Method: "GET", Path: "/status", Handler: m.handleStatus},
		{Method: "GET", Path: "/rules", Handler: m.handleListRules},
		{Method: "PUT", Path: "/rules/{name}", Handler: m.handleSetRule},
	}
}

// handleRecommendations returns the latest optimization result.
//
//	@Summary		Current recommendations
//	@Description	Returns the recommendations from the most recent sample evaluation.
//	@Tags			advisor
//	@Produce		json
//	@Success		200 {object} Result
//	@Router			/advisor/recommendations [get]
func (m *Module) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	result := m.latestResult()
	if result.Recommendations == nil {
		result.Recommendations = []Recommendation{}
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStatus returns the engine run counters.
//
//	@Summary		Advisor status
//	@Description	Returns optimization run counters and the last run time.
//	@Tags			advisor
//	@Produce		json
//	@Success		200 {object} Status
//	@Router			/advisor/status [get]
func (m *Module) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.engine.Status())
}

// handleListRules returns every rule threshold.
//
//	@Summary		List rules
//	@Description	Returns all configured rule thresholds.
//	@Tags			advisor
//	@Produce		json
//	@Success		200 {object} map[string]float64
//	@Router			/advisor/rules [get]
func (m *Module) handleListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, m.engine.Rules().All())
}

type setRuleRequest struct {
	Value float64 `json:"value"`
}

// handleSetRule updates a single rule threshold.
//
//	@Summary		Update rule
//	@Description	Sets a rule threshold. Takes effect on the next evaluation.
//	@Tags			advisor
//	@Accept			json
//	@Produce		json
//	@Param			name path string true "Rule name"
//	@Param			body body setRuleRequest true "New threshold"
//	@Success		200 {object} map[string]float64
//	@Failure		400 {object} map[string]any
//	@Failure		404 {object} map[string]any
//	@Router			/advisor/rules/{name} [put]
func (m *Module) handleSetRule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "rule name is required")
		return
	}

	var req setRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !m.engine.Rules().Set(name, req.Value) {
		writeError(w, http.StatusNotFound, "unknown rule: "+name)
		return
	}

	m.logger.Info("rule updated", zap.String("rule", name), zap.Float64("value", req.Value))
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
