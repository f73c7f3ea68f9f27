package api

import (
	"context"
	"net/http"

	"github.com/okian/funolympics/internal/domain/types"
	"github.com/okian/funolympics/pkg/logger"
)

// LogsDependencies exposes the stored records.
type LogsDependencies interface {
	WebLogs(ctx context.Context) types.WebLogsResponse
	CleanedLogs(ctx context.Context) types.CleanDataResponse
}

// LogsHandler serves the raw and cleaned log snapshots.
type LogsHandler struct {
	deps   LogsDependencies
	logger logger.Logger
}

// NewLogsHandler creates a new logs handler.
func NewLogsHandler(deps LogsDependencies, log logger.Logger) *LogsHandler {
	return &LogsHandler{deps: deps, logger: log}
}

// HandleWebLogs handles GET /web_logs requests.
func (h *LogsHandler) HandleWebLogs(w http.ResponseWriter, r *http.Request) {
	const op = "api.web_logs"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	h.respond(w, r, op, h.deps.WebLogs(r.Context()))
}

// HandleCleanData handles GET /clean_data requests.
func (h *LogsHandler) HandleCleanData(w http.ResponseWriter, r *http.Request) {
	const op = "api.clean_data"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	h.respond(w, r, op, h.deps.CleanedLogs(r.Context()))
}

func (h *LogsHandler) respond(w http.ResponseWriter, r *http.Request, op string, body any) {
	err := writeJSON(w, http.StatusOK, body)
	if err == nil {
		return
	}
	err = WrapKind(op, ErrEncode, err)
	if h.logger != nil {
		h.logger.Error(r.Context(), "response encoding failed",
			logger.String("request_id", RequestID(r.Context())),
			logger.Error(err),
		)
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
