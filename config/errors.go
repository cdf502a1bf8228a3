package config

import "errors"

var (
	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrInvalidStaleThreshold indicates a non-positive stale-settlement threshold.
	ErrInvalidStaleThreshold = errors.New("config: stale threshold must be positive")
)
