// Package server exposes the remediation pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tildaslashalef/remediator/internal/loggy"
	"github.com/tildaslashalef/remediator/internal/remediation"
)

// Router handles HTTP routing
type Router struct {
	mux         *http.ServeMux
	remediation *remediation.Service
	logger      *loggy.Logger
	startTime   time.Time
}

// NewRouter creates a new router instance
func NewRouter(svc *remediation.Service, logger *loggy.Logger) http.Handler {
	r := &Router{
		mux:         http.NewServeMux(),
		remediation: svc,
		logger:      logger,
		startTime:   time.Now(),
	}

	r.setupRoutes()
	return r
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	r.mux.HandleFunc("/assess-select-single", r.handleAssess)
	r.mux.HandleFunc("/health", r.handleHealth)
}

// ServeHTTP attaches a request ID before dispatching to the mux
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	requestID := loggy.NewRequestID()
	ctx := loggy.WithRequestID(req.Context(), requestID)

	w.Header().Set("X-Request-ID", requestID)
	r.mux.ServeHTTP(w, req.WithContext(ctx))
}

// handleAssess handles a batch of units: one completion call per unit with
// actionable findings, results in input order. Per-unit failures come back
// as degraded results, never as a 5xx.
func (r *Router) handleAssess(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var units []remediation.Unit
	if err := json.NewDecoder(req.Body).Decode(&units); err != nil {
		r.logger.Warn("rejecting malformed batch request",
			"request_id", loggy.GetRequestID(req.Context()),
			"error", err)
		http.Error(w, "invalid request body: expected a JSON array of units", http.StatusBadRequest)
		return
	}

	start := time.Now()
	results := r.remediation.ProcessBatch(req.Context(), units)

	r.logger.Info("processed batch",
		"request_id", loggy.GetRequestID(req.Context()),
		"units", len(units),
		"results", len(results),
		"duration", time.Since(start).String())

	writeJSON(w, http.StatusOK, results)
}

// handleHealth handles health check requests
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	health := map[string]interface{}{
		"ok":     true,
		"model":  r.remediation.Model(),
		"uptime": time.Since(r.startTime).Seconds(),
	}

	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
