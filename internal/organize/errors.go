package organize

import "errors"

// ErrUnknownMode is returned when a placement mode is neither copy nor move.
var ErrUnknownMode = errors.New("unknown organize mode")
