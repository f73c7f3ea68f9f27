// Package kafka forwards generated batches to a Kafka topic.
//
// Publishing is optional and strictly downstream of the store: a failed
// write is logged and counted, and never affects what the API serves.
package kafka

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/funolympics/internal/domain/model"
	"github.com/okian/funolympics/pkg/logger"
	"github.com/okian/funolympics/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

const (
	defaultWriteTimeout = 10 * time.Second
	batchIDHeader       = "batch_id"
)

// Writer is the subset of *kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Source yields batches to publish; the channel closes when the source does.
type Source interface {
	Dequeue(ctx context.Context) <-chan model.Batch
}

// NewWriter builds a kafka-go writer for a comma separated broker list.
func NewWriter(brokers, topic string) (*kafka.Writer, error) {
	var addrs []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, ErrNoBrokers
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(addrs...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}, nil
}

// Publisher drains a Source into a Writer, one message per record keyed by
// the batch id.
type Publisher struct {
	source Source
	writer Writer
	logger logger.Logger

	writeTimeout time.Duration
	done         chan struct{}
}

// Option applies a configuration option to the Publisher.
type Option func(*Publisher)

// WithLogger sets a custom logger for the publisher.
func WithLogger(l logger.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithWriteTimeout bounds each batch write.
func WithWriteTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

// NewPublisher creates a publisher reading from source.
func NewPublisher(source Source, writer Writer, opts ...Option) *Publisher {
	p := &Publisher{
		source:       source,
		writer:       writer,
		writeTimeout: defaultWriteTimeout,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("kafka-publisher")
	}
	return p
}

// Run publishes until the source is closed and drained or ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	defer close(p.done)

	for b := range p.source.Dequeue(ctx) {
		if err := p.publish(ctx, b); err != nil {
			metrics.RecordPublish("failed")
			metrics.RecordErrorByType("publish_error", "low")
			p.logger.Warn(ctx, "kafka publish failed",
				logger.String("batch_id", b.ID),
				logger.Int("records", len(b.Records)),
				logger.Error(err),
			)
			continue
		}
		metrics.RecordPublish("sent")
	}
}

// Shutdown waits for Run to return and closes the writer. Close the
// source first so Run can drain it.
func (p *Publisher) Shutdown(ctx context.Context) error {
	select {
	case <-p.done:
	case <-ctx.Done():
		p.logger.Warn(ctx, "publisher shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, b model.Batch) error {
	if len(b.Records) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, len(b.Records))
	for i, r := range b.Records {
		msgs[i] = kafka.Message{
			Key:     []byte(b.ID),
			Value:   r,
			Time:    b.CreatedAt,
			Headers: []kafka.Header{{Key: batchIDHeader, Value: []byte(b.ID)}},
		}
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()
	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("%w %s: %w", ErrPublish, b.ID, err)
	}
	return nil
}
