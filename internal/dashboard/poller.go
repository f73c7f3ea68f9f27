package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/okian/funolympics/internal/dashboard/frame"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
)

// DefaultPollInterval is the period of the background refresh.
const DefaultPollInterval = 60 * time.Second

// Poller periodically fetches through a Fetcher and logs the headline KPIs.
type Poller struct {
	source   Fetcher
	interval time.Duration
	log      logger.Logger

	shutdown chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollInterval sets the refresh period.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollerLogger sets the poller logger.
func WithPollerLogger(l logger.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPoller creates a poller over source.
func NewPoller(source Fetcher, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		interval: DefaultPollInterval,
		log:      logger.Get().Named("dashboard-poller"),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls immediately and then every interval until Shutdown is called
// or ctx is done.
func (p *Poller) Run(ctx context.Context) {
	defer close(p.done)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-timer.C:
			p.poll(ctx)
			timer.Reset(p.interval)
		}
	}
}

// Shutdown stops the loop and waits for it to exit.
func (p *Poller) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() { close(p.shutdown) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) poll(ctx context.Context) {
	records, err := p.source.FetchCleaned(ctx)
	if err != nil {
		p.log.Warn(ctx, "poll failed", logger.Error(err))
		return
	}
	f := frame.NewFrame(records)
	k := f.KPIs()
	metrics.UpdateDashboardRows(f.Len())
	p.log.Info(ctx, "dashboard refreshed",
		logger.Int("total_visits", k.TotalVisits),
		logger.Int("unique_visitors", k.UniqueVisitors),
		logger.String("avg_session", k.AvgSessionLabel()),
		logger.String("bounce_rate", k.BounceRateLabel()),
		logger.Int("dropped", f.Dropped()))
}
