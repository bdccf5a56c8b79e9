package config

import (
	"errors"
	"fmt"
)

// ConfigError represents invalid invocation parameters. It is raised before
// any file is read.
type ConfigError struct {
	Field   string // Configuration key at fault (optional)
	Message string // Human-readable error message
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, msg string) *ConfigError {
	return &ConfigError{Field: field, Message: msg}
}

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config: %s", e.Message)
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// IsConfigError checks if the error is or wraps a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var ce *ConfigError
	return errors.As(err, &ce)
}
