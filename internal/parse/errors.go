package parse

import "errors"

var (
	// ErrNotFound is returned when a script path does not exist.
	ErrNotFound = errors.New("script not found")

	// ErrDecode is returned when a script's bytes cannot be turned into text.
	ErrDecode = errors.New("cannot decode script")
)
