package dashboard

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheTTL is how long a successful fetch is reused.
const DefaultCacheTTL = 60 * time.Second

// CachedFetcher memoizes successful fetches for a fixed TTL. Failures are
// never stored, so the next call retries. Concurrent misses share a single
// request.
type CachedFetcher struct {
	client *Client
	cache  *ttlcache.Cache[string, []model.CleanedLogRecord]
	group  singleflight.Group
}

// NewCachedFetcher wraps client with a cache of the given ttl. A ttl <= 0
// selects DefaultCacheTTL.
func NewCachedFetcher(client *Client, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		client: client,
		cache: ttlcache.New[string, []model.CleanedLogRecord](
			ttlcache.WithTTL[string, []model.CleanedLogRecord](ttl),
			ttlcache.WithDisableTouchOnHit[string, []model.CleanedLogRecord](),
		),
	}
}

// FetchCleaned returns the cached records for the client URL, fetching
// them when absent or expired.
func (f *CachedFetcher) FetchCleaned(ctx context.Context) ([]model.CleanedLogRecord, error) {
	key := f.client.URL()
	if item := f.cache.Get(key); item != nil {
		metrics.RecordDashboardCache(true)
		return item.Value(), nil
	}
	metrics.RecordDashboardCache(false)

	v, err, _ := f.group.Do(key, func() (any, error) {
		if item := f.cache.Get(key); item != nil {
			return item.Value(), nil
		}
		records, err := f.client.FetchCleaned(ctx)
		if err != nil {
			return nil, err
		}
		f.cache.Set(key, records, ttlcache.DefaultTTL)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.CleanedLogRecord), nil
}

// Invalidate drops every cached fetch.
func (f *CachedFetcher) Invalidate() {
	f.cache.DeleteAll()
}
