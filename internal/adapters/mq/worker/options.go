// Package worker runs the background fill loop that grows the log store.
package worker

import (
	"time"

	"github.com/okian/funolympics/pkg/logger"
)

// Option applies a configuration option to the Filler.
type Option func(*Filler)

// WithName sets the filler name for identification and logging.
func WithName(name string) Option {
	return func(f *Filler) {
		if name != "" {
			f.name = name
		}
	}
}

// WithLogger sets a custom logger for the filler.
func WithLogger(logger logger.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithBatchSize sets the number of records generated per iteration.
func WithBatchSize(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithInterval sets the pause between iterations.
func WithInterval(d time.Duration) Option {
	return func(f *Filler) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithPublisher hands every appended batch to p as well.
func WithPublisher(p Publisher) Option {
	return func(f *Filler) {
		f.publisher = p
	}
}
