// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/okian/funolympics/internal/domain/types"
	"github.com/okian/funolympics/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LogsDependencies
	StatsProvider
}

// Server wires HTTP routes for the web log API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	logsHandler   *LogsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		logsHandler:   NewLogsHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/web_logs", MetricsMiddleware(s.logsHandler.HandleWebLogs, "web_logs"))
	mux.HandleFunc("/clean_data", MetricsMiddleware(s.logsHandler.HandleCleanData, "clean_data"))
}

// Handler wraps h with request ids and response compression.
func Handler(h http.Handler) http.Handler {
	return gzhttp.GzipHandler(RequestIDMiddleware(h))
}

type errorResponse = types.ErrorResponse

// writeJSON encodes v fully before writing so an encoding failure can
// still be reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
	return nil
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	_ = writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
