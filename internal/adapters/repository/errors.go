package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed        = errors.New("log store closed")
	ErrInvalidRecord = errors.New("invalid raw record")
)
