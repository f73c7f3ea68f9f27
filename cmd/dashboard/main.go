package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/funolympics/internal/adapters/http/api"
	"github.com/okian/funolympics/internal/config"
	"github.com/okian/funolympics/internal/dashboard"
	"github.com/okian/funolympics/internal/dashboard/frame"
	"github.com/okian/funolympics/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// options holds the command line flags.
type options struct {
	url         string
	addr        string
	once        bool
	view        string
	format      string
	minDate     string
	maxDate     string
	location    string
	granularity string
	help        bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := &options{}
	fs.StringVar(&o.url, "url", "", "Cleaned data endpoint (overrides config)")
	fs.StringVar(&o.addr, "addr", "", "Listen address (overrides config)")
	fs.BoolVar(&o.once, "once", false, "Fetch once, print the view and exit")
	fs.StringVar(&o.view, "view", dashboard.ViewDashboard, "View to print with -once: dashboard or report")
	fs.StringVar(&o.format, "format", string(dashboard.FormatText), "Output format with -once: text, json or yaml")
	fs.StringVar(&o.minDate, "min-date", "", "Earliest day to include, YYYY-MM-DD")
	fs.StringVar(&o.maxDate, "max-date", "", "Latest day to include, YYYY-MM-DD")
	fs.StringVar(&o.location, "location", "", "Comma separated locations to include")
	fs.StringVar(&o.granularity, "granularity", string(frame.Hourly), "Time series buckets: hourly, daily or monthly")
	fs.BoolVar(&o.help, "help", false, "Show help")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

// query converts the filter flags into a dashboard query.
func (o *options) query() (dashboard.Query, error) {
	var q dashboard.Query
	var err error
	if o.minDate != "" {
		if q.Filter.MinDate, err = time.Parse(dashboard.DateLayout, o.minDate); err != nil {
			return q, fmt.Errorf("min-date: %w", err)
		}
	}
	if o.maxDate != "" {
		if q.Filter.MaxDate, err = time.Parse(dashboard.DateLayout, o.maxDate); err != nil {
			return q, fmt.Errorf("max-date: %w", err)
		}
	}
	for _, l := range strings.Split(o.location, ",") {
		if l = strings.TrimSpace(l); l != "" {
			q.Filter.Locations = append(q.Filter.Locations, l)
		}
	}
	if q.Granularity, err = frame.ParseGranularity(o.granularity); err != nil {
		return q, err
	}
	return q, nil
}

func main() {
	o, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		return
	}
	if o.help {
		dashboard.ShowHelp()
		return
	}

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o, os.Stdout); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, o *options, out io.Writer) error {
	cfg, err := loadConfig(ctx, o)
	if err != nil {
		return err
	}

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	client := dashboard.NewClient(cfg.APIURL,
		dashboard.WithTimeout(cfg.RequestTimeout()),
		dashboard.WithLogger(log.Named("dashboard-client")))

	if o.once {
		format, err := dashboard.ParseFormat(o.format)
		if err != nil {
			return err
		}
		q, err := o.query()
		if err != nil {
			return err
		}
		return dashboard.RunOnce(ctx, client, o.view, q, format, out)
	}

	return serve(ctx, cfg, dashboard.NewCachedFetcher(client, cfg.CacheTTL()), log)
}

// loadConfig layers the flag overrides on top of the loaded configuration.
func loadConfig(ctx context.Context, o *options) (*config.DashboardConfig, error) {
	cfg, err := config.LoadDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if o.url != "" {
		cfg.APIURL = o.url
	}
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg *config.DashboardConfig, source *dashboard.CachedFetcher, log logger.Logger) error {
	poller := dashboard.NewPoller(source,
		dashboard.WithPollInterval(cfg.PollInterval()),
		dashboard.WithPollerLogger(log.Named("dashboard-poller")))
	go poller.Run(ctx)

	mux := http.NewServeMux()
	dashboard.NewServer(source, log.Named("dashboard-server")).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting dashboard server",
			logger.String("addr", cfg.Addr),
			logger.String("api_url", cfg.APIURL),
			logger.Duration("cache_ttl", cfg.CacheTTL()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}
	log.Info(ctx, "shutting down dashboard...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := poller.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "poller shutdown failed", logger.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "dashboard stopped")
	return serveErr
}
