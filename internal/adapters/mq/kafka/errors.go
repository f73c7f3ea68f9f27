package kafka

import "errors"

// Sentinel kinds for publisher errors.
var (
	ErrNoBrokers = errors.New("no kafka brokers configured")
	ErrPublish   = errors.New("publish batch failed")
)
