package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/funolympics/internal/domain/model"
)

func batch(id string) model.Batch {
	return model.Batch{ID: id, Records: []model.RawRecord{model.RawRecord(`{}`)}, CreatedAt: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if err := q.Enqueue(ctx, batch("b1")); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	b := <-q.Dequeue(ctx)
	if b.ID != "b1" {
		t.Errorf("expected b1, got %v", b.ID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_DropsWhenFull(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	_ = q.Enqueue(ctx, batch("b1"))
	_ = q.Enqueue(ctx, batch("b2"))

	done := make(chan error, 1)
	go func() { done <- q.Enqueue(ctx, batch("b3")) }()

	select {
	case err := <-done:
		if !errors.Is(err, ErrFull) {
			t.Errorf("expected ErrFull, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, batch("b1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_DequeueStopsOnCancelWhileEmpty(t *testing.T) {
	q := NewInMemoryQueue()
	defer q.Close()
	ctx, cancel := context.WithCancel(context.Background())
	out := q.Dequeue(ctx)

	cancel()
	select {
	case _, ok := <-out:
		if ok {
			t.Fatal("expected closed channel, got a batch")
		}
	case <-time.After(time.Second):
		t.Fatal("dequeue did not stop after cancellation on an empty queue")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx := context.Background()
	const producers, perProducer = 4, 25

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, batch(fmt.Sprintf("b%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	seen := make(map[string]bool)
	consumed := make(chan struct{})
	go func() {
		defer close(consumed)
		for b := range q.Dequeue(ctx) {
			seen[b.ID] = true
		}
	}()

	wg.Wait()
	_ = q.Close()

	select {
	case <-consumed:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not finish after close")
	}
	if len(seen) != producers*perProducer {
		t.Errorf("expected %d batches, got %d", producers*perProducer, len(seen))
	}
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, batch("b1"))
	_ = q.Enqueue(ctx, batch("b2"))

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, batch("b3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Batches queued before Close are still delivered, then the channel closes.
	var ids []string
	timeout := time.After(time.Second)
	ch := q.Dequeue(ctx)
	for open := true; open; {
		select {
		case b, ok := <-ch:
			if !ok {
				open = false
				continue
			}
			ids = append(ids, b.ID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
	if len(ids) != 2 || ids[0] != "b1" || ids[1] != "b2" {
		t.Errorf("expected [b1 b2], got %v", ids)
	}

	if err := q.Close(); err != nil {
		t.Errorf("expected second close to succeed, got error: %v", err)
	}
}
