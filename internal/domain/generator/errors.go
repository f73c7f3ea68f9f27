package generator

import "errors"

// Sentinel kinds for generator errors.
var (
	ErrEncode = errors.New("encode log record failed")
)
