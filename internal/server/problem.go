package server

import (
	"encoding/json"
	"net/http"
)

// Problem types for RFC 7807 Problem Details responses.
const (
	ProblemTypeNotFound    = "https://gamepulse.dev/problems/not-found"
	ProblemTypeInternal    = "https://gamepulse.dev/problems/internal-error"
	ProblemTypeRateLimited = "https://gamepulse.dev/problems/rate-limited"
)

// problemTitles maps each problem type to its response title and status.
var problemTitles = map[string]struct {
	title  string
	status int
}{
	ProblemTypeNotFound:    {"Not Found", http.StatusNotFound},
	ProblemTypeInternal:    {"Internal Server Error", http.StatusInternalServerError},
	ProblemTypeRateLimited: {"Too Many Requests", http.StatusTooManyRequests},
}

// Problem represents an RFC 7807 Problem Details response.
type Problem struct {
	Type     string `json:"type" example:"https://gamepulse.dev/problems/not-found"`
	Title    string `json:"title" example:"Not Found"`
	Status   int    `json:"status" example:"404"`
	Detail   string `json:"detail,omitempty" example:"invalid threshold value"`
	Instance string `json:"instance,omitempty" example:"/api/v1/sentry/thresholds/cpu"`
}

// WriteProblem writes an RFC 7807 Problem Details JSON response.
func WriteProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// writeProblemType writes the canonical problem response for a known type.
func writeProblemType(w http.ResponseWriter, problemType, detail, instance string) {
	meta := problemTitles[problemType]
	WriteProblem(w, Problem{
		Type:     problemType,
		Title:    meta.title,
		Status:   meta.status,
		Detail:   detail,
		Instance: instance,
	})
}

// NotFound writes a 404 problem response.
func NotFound(w http.ResponseWriter, detail, instance string) {
	writeProblemType(w, ProblemTypeNotFound, detail, instance)
}

// InternalError writes a 500 problem response.
func InternalError(w http.ResponseWriter, detail, instance string) {
	writeProblemType(w, ProblemTypeInternal, detail, instance)
}

// RateLimited writes a 429 problem response.
func RateLimited(w http.ResponseWriter, detail, instance string) {
	writeProblemType(w, ProblemTypeRateLimited, detail, instance)
}
