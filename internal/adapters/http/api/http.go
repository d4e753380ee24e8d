// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aquametrics/strokecore/internal/domain/types"
	"github.com/aquametrics/strokecore/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the orchestrator implementation.
type Dependencies interface {
	// Session lifecycle commands.
	StartSession(ctx context.Context) types.Snapshot
	EndSession(ctx context.Context) types.Snapshot
	ResetSession(ctx context.Context)

	// Snapshot exposes the current session state.
	Snapshot(ctx context.Context) types.Snapshot

	// SetSwimming passes the upstream motion-activity signal through.
	SetSwimming(ctx context.Context, swimming bool)
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the pipeline API.
type Server struct {
	sessionHandler  *SessionHandler
	snapshotHandler *SnapshotHandler
	activityHandler *ActivityHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
}

// NewServer creates an API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		sessionHandler:  NewSessionHandler(deps),
		snapshotHandler: NewSnapshotHandler(deps),
		activityHandler: NewActivityHandler(deps),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/snapshot", MetricsMiddleware(s.snapshotHandler.HandleGetSnapshot, "snapshot"))
	mux.HandleFunc("/activity", MetricsMiddleware(s.activityHandler.HandlePostActivity, "activity"))
	mux.HandleFunc("/session/start", MetricsMiddleware(s.sessionHandler.HandleStart, "session_start"))
	mux.HandleFunc("/session/end", MetricsMiddleware(s.sessionHandler.HandleEnd, "session_end"))
	mux.HandleFunc("/session/reset", MetricsMiddleware(s.sessionHandler.HandleReset, "session_reset"))
	mux.Handle("/metrics", metrics.Handler())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
