package discover

import "errors"

// ErrBadPattern is returned when the discovery glob is malformed.
var ErrBadPattern = errors.New("invalid glob pattern")
