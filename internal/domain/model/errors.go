package model

import "errors"

// Sentinel kinds for record errors.
var (
	ErrInvalidRecord = errors.New("invalid log record")
)
