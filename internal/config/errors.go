package config

import "errors"

// Errors returned by Load and Validate. Messages carry the offending key.
var (
	ErrInvalidConfig = errors.New("invalid runstats config")
	ErrLoadConfig    = errors.New("cannot load runstats config")
)
