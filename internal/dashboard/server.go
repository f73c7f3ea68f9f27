package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/funolympics/internal/adapters/http/api"
	"github.com/okian/funolympics/internal/adapters/http/site"
	"github.com/okian/funolympics/internal/dashboard/frame"
	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/internal/domain/types"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
)

// DateLayout is the format of the min_date and max_date parameters.
const DateLayout = "2006-01-02"

// Error codes returned in the JSON error body.
const (
	codeBadRequest      = "bad_request"
	codeConnectionError = "connection_error"
	codeStatusError     = "status_error"
	codeDecodeError     = "decode_error"
	codeInternalError   = "internal_error"
)

// Source is a refreshable supplier of cleaned records.
type Source interface {
	Fetcher
	Invalidate()
}

// Server serves the dashboard page and its JSON API.
type Server struct {
	source Source
	log    logger.Logger
	health *api.HealthHandler
}

// NewServer creates a dashboard server reading from source.
func NewServer(source Source, log logger.Logger) *Server {
	return &Server{source: source, log: log, health: api.NewHealthHandler()}
}

// Register attaches the dashboard routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	site.Register(ctx, mux)
	mux.HandleFunc("/healthz", api.MetricsMiddleware(s.health.HandleHealth, "healthz"))
	mux.HandleFunc("/api/dashboard", api.MetricsMiddleware(s.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/report", api.MetricsMiddleware(s.HandleReport, "report"))
	mux.HandleFunc("/api/refresh", api.MetricsMiddleware(s.HandleRefresh, "refresh"))
}

// HandleDashboard handles GET /api/dashboard.
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q, err := ParseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	records, ok := s.fetch(w, r)
	if !ok {
		return
	}
	v, err := BuildView(records, q)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	metrics.UpdateDashboardRows(v.Rows)
	s.write(w, r, v)
}

// HandleReport handles GET /api/report.
func (s *Server) HandleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, ok := s.fetch(w, r)
	if !ok {
		return
	}
	s.write(w, r, BuildReport(records))
}

// HandleRefresh handles POST /api/refresh by discarding cached data.
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	s.source.Invalidate()
	s.log.Info(r.Context(), "cache invalidated", logger.String("request_id", api.RequestID(r.Context())))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) fetch(w http.ResponseWriter, r *http.Request) ([]model.CleanedLogRecord, bool) {
	records, err := s.source.FetchCleaned(r.Context())
	if err == nil {
		return records, true
	}
	code, msg := classify(err)
	s.log.Warn(r.Context(), "fetch cleaned logs failed",
		logger.String("request_id", api.RequestID(r.Context())),
		logger.String("code", code),
		logger.Error(err))
	writeError(w, http.StatusBadGateway, code, msg)
	return nil, false
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, v any) {
	if err := writeJSON(w, http.StatusOK, v); err != nil {
		s.log.Error(r.Context(), "encode response failed",
			logger.String("request_id", api.RequestID(r.Context())),
			logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, err.Error())
	}
}

// classify maps a fetch error to its code and the message shown to users.
func classify(err error) (code, msg string) {
	var se *StatusError
	switch {
	case errors.Is(err, ErrConnection):
		return codeConnectionError, ErrConnection.Error()
	case errors.As(err, &se):
		return codeStatusError, se.Error()
	case errors.Is(err, ErrDecode):
		return codeDecodeError, ErrDecode.Error()
	}
	return codeInternalError, err.Error()
}

// ParseQuery reads the dashboard filters from the request: min_date and
// max_date as YYYY-MM-DD, location repeated or comma separated, and
// granularity.
func ParseQuery(r *http.Request) (Query, error) {
	values := r.URL.Query()
	var q Query
	var err error
	if q.Filter.MinDate, err = parseDate(values.Get("min_date")); err != nil {
		return Query{}, err
	}
	if q.Filter.MaxDate, err = parseDate(values.Get("max_date")); err != nil {
		return Query{}, err
	}
	for _, v := range values["location"] {
		for _, l := range strings.Split(v, ",") {
			if l = strings.TrimSpace(l); l != "" {
				q.Filter.Locations = append(q.Filter.Locations, l)
			}
		}
	}
	if q.Granularity, err = frame.ParseGranularity(values.Get("granularity")); err != nil {
		return Query{}, err
	}
	return q, nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, s)
}

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

func writeError(w http.ResponseWriter, status int, code, msg string) {
	_ = writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}
