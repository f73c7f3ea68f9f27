// Package dashboard fetches cleaned web logs and turns them into the
// dashboard and report views.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/internal/domain/types"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
)

// DefaultTimeout bounds a single fetch when no client is supplied.
const DefaultTimeout = 10 * time.Second

// Fetcher returns the current cleaned records.
type Fetcher interface {
	FetchCleaned(ctx context.Context) ([]model.CleanedLogRecord, error)
}

// Client reads the /clean_data endpoint of the web log service.
type Client struct {
	url        string
	httpClient *http.Client
	log        logger.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) ClientOption {
	return func(cl *Client) {
		if l != nil {
			cl.log = l
		}
	}
}

// NewClient creates a client for the cleaned data endpoint at url.
func NewClient(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		log:        logger.Get().Named("dashboard-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the endpoint the client reads.
func (c *Client) URL() string { return c.url }

// FetchCleaned performs one GET and decodes the cleaned records. Records
// that do not decode are skipped.
func (c *Client) FetchCleaned(ctx context.Context) ([]model.CleanedLogRecord, error) {
	start := time.Now()
	records, result, err := c.fetch(ctx)
	metrics.RecordDashboardFetch(result, float64(time.Since(start).Milliseconds()))
	return records, err
}

func (c *Client) fetch(ctx context.Context) ([]model.CleanedLogRecord, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, "connection_error", fmt.Errorf("%w: %w", ErrConnection, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "fetch failed", logger.String("url", c.url), logger.Error(err))
		return nil, "connection_error", fmt.Errorf("%w: %w", ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn(ctx, "unexpected status", logger.String("url", c.url), logger.Int("status", resp.StatusCode))
		return nil, "status_error", &StatusError{Code: resp.StatusCode}
	}

	var body types.CleanDataResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "decode_error", fmt.Errorf("%w: %w", ErrDecode, err)
	}

	records := make([]model.CleanedLogRecord, 0, len(body.CleanedData))
	skipped := 0
	for i, raw := range body.CleanedData {
		var r model.CleanedLogRecord
		if err := json.Unmarshal(raw, &r); err != nil {
			skipped++
			c.log.Debug(ctx, "skipping record", logger.Int("index", i), logger.Error(err))
			continue
		}
		records = append(records, r)
	}
	if skipped > 0 {
		c.log.Warn(ctx, "skipped undecodable records", logger.Int("skipped", skipped), logger.Int("kept", len(records)))
	}
	return records, "ok", nil
}
