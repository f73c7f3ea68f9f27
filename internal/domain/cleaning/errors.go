package cleaning

import "errors"

// Sentinel kinds for cleaning errors.
var (
	ErrMalformed    = errors.New("malformed log record")
	ErrCoerce       = errors.New("numeric coercion failed")
	ErrMissingField = errors.New("missing field")
)
