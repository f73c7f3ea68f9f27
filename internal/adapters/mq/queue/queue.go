// Package queue is the bounded hand-off between the fill loop and the
// optional batch publisher.
//
// Enqueue never blocks: the fill loop must keep its schedule even when the
// publisher falls behind, so a full queue drops the batch instead.
package queue

import (
	"context"
	"sync"

	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/metrics"
)

const defaultQueueCapacity = 64

// Batch is the payload type flowing through the queue.
type Batch = model.Batch

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a batch to the queue. It returns ErrFull or ErrClosed
	// when the batch was not enqueued.
	Enqueue(ctx context.Context, b Batch) error

	// Dequeue returns a channel that receives batches as they become
	// available. The channel is closed once the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Batch

	// Len returns the current number of queued batches.
	Len(ctx context.Context) int

	// Close stops accepting batches.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	batches  chan Batch
	capacity int
	mu       sync.RWMutex
	closed   bool
}

var _ Queue = (*InMemoryQueue)(nil)

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.batches = make(chan Batch, q.capacity)

	metrics.UpdatePublishQueueLength(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, b Batch) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case q.batches <- b:
		metrics.UpdatePublishQueueLength(len(q.batches))
		return nil
	default:
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Batch {
	out := make(chan Batch)
	go func() {
		defer close(out)
		for {
			var b Batch
			select {
			case <-ctx.Done():
				return
			case next, ok := <-q.batches:
				if !ok {
					return
				}
				b = next
			}
			select {
			case out <- b:
				metrics.UpdatePublishQueueLength(len(q.batches))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.batches)
	metrics.UpdatePublishQueueLength(size)
	return size
}

// Close implements Queue. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.batches)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
