package config

import "strings"

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}
	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}
	if cfg.StaleThreshold <= 0 {
		return ErrInvalidStaleThreshold
	}
	return nil
}
