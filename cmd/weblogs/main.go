package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/funolympics/internal/adapters/http/api"
	"github.com/okian/funolympics/internal/adapters/http/swagger"
	app "github.com/okian/funolympics/internal/app"
	"github.com/okian/funolympics/internal/config"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(serviceOptions(cfg, loggerInstance)...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, loggerInstance).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(mux),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.Int("batch_size", cfg.BatchSize),
			logger.Duration("batch_interval", cfg.BatchInterval()),
			logger.Bool("kafka", cfg.KafkaBrokers != ""))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// serviceOptions maps the loaded configuration onto service options.
func serviceOptions(cfg *config.Config, log logger.Logger) []app.Option {
	opts := []app.Option{
		app.WithLogger(log),
		app.WithBatchSize(cfg.BatchSize),
		app.WithBatchInterval(cfg.BatchInterval()),
		app.WithMaxRecords(cfg.MaxRecords),
		app.WithPublishQueueSize(cfg.PublishQueueSize),
	}
	if cfg.Seed != 0 {
		opts = append(opts, app.WithSeed(cfg.Seed))
	}
	if cfg.KafkaBrokers != "" {
		opts = append(opts, app.WithKafka(cfg.KafkaBrokers, cfg.KafkaTopic))
	}
	return opts
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
}
