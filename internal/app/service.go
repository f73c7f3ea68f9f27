// Package service wires the generator, store, fill loop and cleaner into
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okian/funolympics/internal/adapters/mq/kafka"
	"github.com/okian/funolympics/internal/adapters/mq/queue"
	"github.com/okian/funolympics/internal/adapters/mq/worker"
	"github.com/okian/funolympics/internal/adapters/repository"
	"github.com/okian/funolympics/internal/domain/cleaning"
	"github.com/okian/funolympics/internal/domain/generator"
	"github.com/okian/funolympics/internal/domain/types"
	"github.com/okian/funolympics/pkg/logger"
)

const stopTimeout = 10 * time.Second

// Service owns the log store and the background loops that feed it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *repository.LogStore
	filler    *worker.Filler
	queue     *queue.InMemoryQueue
	publisher *kafka.Publisher
	cleaner   *cleaning.Cleaner

	// Configuration
	batchSize        int
	batchInterval    time.Duration
	maxRecords       int
	seed             uint64
	kafkaBrokers     string
	kafkaTopic       string
	publishQueueSize int
	kafkaWriter      kafka.Writer

	// State
	started bool
	cancel  context.CancelFunc

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithBatchSize sets the number of records generated per fill iteration.
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithBatchInterval sets the pause between fill iterations.
func WithBatchInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.batchInterval = d
		}
	}
}

// WithMaxRecords bounds store retention. Zero keeps everything.
func WithMaxRecords(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.maxRecords = n
		}
	}
}

// WithSeed makes generation deterministic. Zero means random.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithKafka enables publishing of generated batches to topic.
func WithKafka(brokers, topic string) Option {
	return func(s *Service) {
		s.kafkaBrokers = brokers
		if topic != "" {
			s.kafkaTopic = topic
		}
	}
}

// WithKafkaWriter publishes through w instead of dialing brokers.
func WithKafkaWriter(w kafka.Writer) Option {
	return func(s *Service) {
		s.kafkaWriter = w
	}
}

// WithPublishQueueSize bounds the number of batches waiting to be published.
func WithPublishQueueSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.publishQueueSize = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		batchSize:        worker.DefaultBatchSize,
		batchInterval:    worker.DefaultInterval,
		kafkaTopic:       "web-logs",
		publishQueueSize: 64,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start creates the store and launches the fill loop (and the publisher,
// when one is configured). Calling Start twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting web log service...")

	writer := s.kafkaWriter
	if writer == nil && s.kafkaBrokers != "" {
		w, err := kafka.NewWriter(s.kafkaBrokers, s.kafkaTopic)
		if err != nil {
			return err
		}
		writer = w
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.store = repository.NewLogStore(runCtx, repository.WithMaxRecords(s.maxRecords))
	s.cleaner = cleaning.NewCleaner(s.logger.Named("cleaner"))

	genOpts := []generator.Option{}
	if s.seed != 0 {
		genOpts = append(genOpts, generator.WithSeed(s.seed))
	}
	fillerOpts := []worker.Option{
		worker.WithLogger(s.logger.Named("filler")),
		worker.WithBatchSize(s.batchSize),
		worker.WithInterval(s.batchInterval),
	}

	if writer != nil {
		s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.publishQueueSize))
		s.publisher = kafka.NewPublisher(s.queue, writer, kafka.WithLogger(s.logger.Named("kafka-publisher")))
		fillerOpts = append(fillerOpts, worker.WithPublisher(s.queue))
		go s.publisher.Run(runCtx)
	}

	s.filler = worker.NewFiller(generator.New(genOpts...), s.store, fillerOpts...)
	go s.filler.Run(runCtx)

	s.started = true
	s.logger.Info(ctx, "web log service started",
		logger.Int("batchSize", s.batchSize),
		logger.Duration("batchInterval", s.batchInterval),
		logger.Int("maxRecords", s.maxRecords),
		logger.Bool("kafka", writer != nil),
	)

	return nil
}

// Stop halts the fill loop, drains the publisher and closes the store.
// Snapshots stay readable afterwards.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping web log service...")

	if err := s.filler.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "filler shutdown", logger.Error(err))
	}
	if s.queue != nil {
		_ = s.queue.Close()
	}
	if s.publisher != nil {
		if err := s.publisher.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "publisher shutdown", logger.Error(err))
		}
	}
	_ = s.store.Close()
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "web log service stopped")
}

func (s *Service) currentStore() *repository.LogStore {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

// WebLogs returns every stored record as generated.
func (s *Service) WebLogs(ctx context.Context) types.WebLogsResponse {
	resp := types.WebLogsResponse{WebLogs: []json.RawMessage{}}
	store := s.currentStore()
	if store == nil {
		return resp
	}
	if snap := store.Snapshot(ctx); len(snap) > 0 {
		resp.WebLogs = snap
	}
	resp.LogCount = len(resp.WebLogs)
	return resp
}

// CleanedLogs returns the cleaned form of every stored record, skipping
// those that cannot be cleaned.
func (s *Service) CleanedLogs(ctx context.Context) types.CleanDataResponse {
	resp := types.CleanDataResponse{CleanedData: []json.RawMessage{}}
	store := s.currentStore()
	if store == nil {
		return resp
	}
	s.mu.RLock()
	cleaner := s.cleaner
	s.mu.RUnlock()
	resp.CleanedData = cleaner.CleanAll(ctx, store.Snapshot(ctx))
	return resp
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":         s.started,
		"batchSize":       s.batchSize,
		"batchIntervalMs": s.batchInterval.Milliseconds(),
		"maxRecords":      s.maxRecords,
		"kafkaEnabled":    s.publisher != nil,
	}

	if s.store != nil {
		stats["recordsStored"] = s.store.Count(ctx)
		stats["recordsGenerated"] = s.store.Total(ctx)
	}
	if s.filler != nil {
		stats["batches"] = s.filler.Batches()
	}
	if s.queue != nil {
		stats["publishQueueLength"] = s.queue.Len(ctx)
	}

	return stats
}
