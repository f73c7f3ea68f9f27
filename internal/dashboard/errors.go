package dashboard

import (
	"errors"
	"fmt"
)

// Error constants. The messages are shown to the dashboard user verbatim.
var (
	ErrConnection = errors.New("Connection Error: Failed to establish a connection to the API. " +
		"Please check your connection or contact the admin for further assistance.")
	ErrDecode        = errors.New("failed to decode cleaned web server logs")
	ErrInvalidFormat = errors.New("invalid output format")
	ErrInvalidView   = errors.New("invalid view")
)

// StatusError reports a non-200 answer from the web log service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Failed to fetch cleaned web server logs: %d", e.Code)
}
