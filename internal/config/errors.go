package config

import "errors"

// ErrUnsupportedFormat is returned for configuration files whose extension
// is not .yaml, .yml, .json or .toml.
var ErrUnsupportedFormat = errors.New("unsupported config format")
