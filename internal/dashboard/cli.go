package dashboard

import (
	"os"
)

// ShowHelp prints usage information for the dashboard.
func ShowHelp() {
	os.Stdout.WriteString(`Funolympics Web Logs Dashboard
==============================

Reads cleaned web server logs from the web log service and serves the
dashboard and the statistical report.

Usage:
  go run cmd/dashboard/main.go [options]

Options:
  -url string
        Cleaned data endpoint (default from config, http://localhost:5000/clean_data)
  -addr string
        Listen address of the dashboard server (default from config, :8501)
  -once
        Fetch once, print the selected view and exit
  -view string
        View to print with -once: dashboard or report (default "dashboard")
  -format string
        Output format with -once: text, json or yaml (default "text")
  -min-date string
        Earliest day to include, YYYY-MM-DD
  -max-date string
        Latest day to include, YYYY-MM-DD
  -location string
        Comma separated locations to include
  -granularity string
        Time series buckets: hourly, daily or monthly (default "hourly")
  -help
        Show this help message

Environment:
  DASHBOARD_CONFIG        Path to a YAML config file
  DASHBOARD_API_URL       Cleaned data endpoint
  DASHBOARD_ADDR          Listen address
  DASHBOARD_CACHE_TTL_MS  Cache lifetime of a successful fetch
  DASHBOARD_LOG_LEVEL     debug, info, warn or error

Examples:
  # Serve the dashboard
  go run cmd/dashboard/main.go

  # Print the report as YAML
  go run cmd/dashboard/main.go -once -view report -format yaml

  # Daily series for two countries
  go run cmd/dashboard/main.go -once -location France,Kenya -granularity daily
`)
}
