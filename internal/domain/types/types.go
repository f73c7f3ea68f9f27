// Package types contains the response envelopes shared by the HTTP API and
// the dashboard client.
package types

import "encoding/json"

// WebLogsResponse is the body of GET /web_logs.
type WebLogsResponse struct {
	WebLogs  []json.RawMessage `json:"web_logs"`
	LogCount int               `json:"log_count"`
}

// CleanDataResponse is the body of GET /clean_data.
type CleanDataResponse struct {
	CleanedData []json.RawMessage `json:"cleaned_data"`
}

// ErrorResponse is the JSON error body used by both HTTP surfaces.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
