package repository

import "time"

// Option applies a configuration option to the LogStore.
type Option func(*LogStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *LogStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithMaxRecords bounds the number of retained records. Once the bound is
// exceeded the oldest records are discarded. Zero keeps everything.
func WithMaxRecords(n int) Option {
	return func(s *LogStore) {
		if n >= 0 {
			s.maxRecords = n
		}
	}
}
