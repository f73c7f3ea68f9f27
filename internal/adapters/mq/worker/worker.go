// Package worker runs the background fill loop that grows the log store.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
)

// Default filler configuration constants.
const (
	DefaultBatchSize = 200
	DefaultInterval  = 5 * time.Second
)

// Generator produces encoded records.
type Generator interface {
	Batch(n int) ([]model.RawRecord, error)
}

// Appender stores generated records.
type Appender interface {
	Append(ctx context.Context, records ...model.RawRecord) error
}

// Publisher accepts batches for delivery elsewhere. Enqueue must not block.
type Publisher interface {
	Enqueue(ctx context.Context, b model.Batch) error
}

// Worker is a background loop with graceful shutdown.
type Worker interface {
	// Run starts the loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the loop and waits for the current iteration.
	Shutdown(ctx context.Context) error
}

// Filler generates a batch, appends it, then sleeps, forever.
type Filler struct {
	generator Generator
	appender  Appender
	publisher Publisher
	name      string
	batchSize int
	interval  time.Duration
	batches   atomic.Int64

	shutdownOnce sync.Once
	shutdown     chan struct{}
	done         chan struct{}

	logger logger.Logger
}

var _ Worker = (*Filler)(nil)

// NewFiller creates a fill loop over the given generator and store.
func NewFiller(generator Generator, appender Appender, opts ...Option) *Filler {
	f := &Filler{
		generator: generator,
		appender:  appender,
		name:      "filler",
		batchSize: DefaultBatchSize,
		interval:  DefaultInterval,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logger.Get().Named(f.name)
	}

	return f
}

// Run implements Worker. The first batch is produced immediately.
func (f *Filler) Run(ctx context.Context) {
	defer close(f.done)

	f.logger.Info(ctx, "fill loop started",
		logger.Int("batch_size", f.batchSize),
		logger.Duration("interval", f.interval),
	)

	for {
		if err := f.fill(ctx); err != nil {
			f.logger.Error(ctx, "fill iteration failed", logger.Error(err))
		}

		timer := time.NewTimer(f.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			f.logger.Info(ctx, "fill loop stopped", logger.String("reason", "context done"))
			return
		case <-f.shutdown:
			timer.Stop()
			f.logger.Info(ctx, "fill loop stopped", logger.String("reason", "shutdown"))
			return
		case <-timer.C:
		}
	}
}

// Shutdown implements Worker.
func (f *Filler) Shutdown(ctx context.Context) error {
	f.shutdownOnce.Do(func() { close(f.shutdown) })

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		f.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Batches returns the number of batches appended so far.
func (f *Filler) Batches() int64 {
	return f.batches.Load()
}

// fill runs one iteration: generate, append, publish.
func (f *Filler) fill(ctx context.Context) error {
	start := time.Now()
	id := uuid.NewString()

	records, err := f.generator.Batch(f.batchSize)
	if err != nil {
		metrics.RecordErrorByType("generate_error", "high")
		return fmt.Errorf("generate batch %s: %w", id, err)
	}
	if err := f.appender.Append(ctx, records...); err != nil {
		metrics.RecordErrorByType("append_error", "high")
		return fmt.Errorf("append batch %s: %w", id, err)
	}
	f.batches.Add(1)
	metrics.RecordBatchGenerated(len(records), float64(time.Since(start).Microseconds())/1000)

	f.logger.Debug(ctx, "batch appended",
		logger.String("batch_id", id),
		logger.Int("records", len(records)),
	)

	if f.publisher == nil {
		return nil
	}
	b := model.Batch{ID: id, Records: records, CreatedAt: start}
	if err := f.publisher.Enqueue(ctx, b); err != nil {
		metrics.RecordPublish("dropped")
		f.logger.Warn(ctx, "batch dropped from publish path",
			logger.String("batch_id", id),
			logger.Error(err),
		)
		return nil
	}
	metrics.RecordPublish("queued")
	return nil
}
