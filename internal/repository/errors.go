package repository

import "errors"

var (
	// ErrUnavailable is returned when the backing store cannot be reached.
	// Read paths treat it as transient: callers degrade to an empty result
	// rather than failing the whole request.
	ErrUnavailable = errors.New("store unavailable")
)
