package frame

import "errors"

// Error constants
var (
	ErrUnknownField       = errors.New("unknown field")
	ErrUnknownGranularity = errors.New("unknown granularity")
)
