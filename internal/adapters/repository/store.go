// Package repository holds the in-memory, append-only log store shared by
// the background filler and the HTTP handlers.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/metrics"
)

// Store is the read/write surface over accumulated raw records.
type Store interface {
	// Append adds records at the end, preserving their order.
	Append(ctx context.Context, records ...model.RawRecord) error
	// Snapshot returns every retained record in insertion order. The result
	// is never affected by later appends.
	Snapshot(ctx context.Context) []model.RawRecord
	// Count returns the number of retained records.
	Count(ctx context.Context) int
	// Total returns the number of records ever appended.
	Total(ctx context.Context) int64
}

// LogStore is a mutex guarded, append-only Store.
//
// Readers get a slice header capped at the current length, so a later
// append always reallocates or writes past what any reader can see.
type LogStore struct {
	mu      sync.RWMutex
	records []model.RawRecord
	total   int64
	closed  bool

	maxRecords            int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

var _ Store = (*LogStore)(nil)

// NewLogStore constructs an empty store and starts its metrics updater,
// which runs until ctx is done or Close is called.
func NewLogStore(ctx context.Context, opts ...Option) *LogStore {
	s := &LogStore{
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Append implements Store.
func (s *LogStore) Append(_ context.Context, records ...model.RawRecord) error {
	for _, r := range records {
		if len(r) == 0 {
			return ErrInvalidRecord
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.records = append(s.records, records...)
	s.total += int64(len(records))

	if s.maxRecords > 0 && len(s.records) > s.maxRecords {
		drop := len(s.records) - s.maxRecords
		kept := make([]model.RawRecord, s.maxRecords, s.maxRecords+s.maxRecords/4)
		copy(kept, s.records[drop:])
		s.records = kept
		metrics.RecordStoreTrimmed(drop)
	}
	return nil
}

// Snapshot implements Store.
func (s *LogStore) Snapshot(_ context.Context) []model.RawRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.records)
	return s.records[:n:n]
}

// Count implements Store.
func (s *LogStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Total implements Store.
func (s *LogStore) Total(_ context.Context) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Close stops the metrics updater and rejects further appends. Snapshots
// stay readable.
func (s *LogStore) Close() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

func (s *LogStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *LogStore) updateMetrics() {
	s.mu.RLock()
	current, total := len(s.records), s.total
	s.mu.RUnlock()
	metrics.UpdateStoreSize(current, total)
}
