package domain

import (
	"errors"
	"fmt"
)

// ConfigurationError marks input that is rejected before any probing starts.
// Every other failure class is recovered into an Attempt by the monitor.
type ConfigurationError struct {
	msg string
}

func (e *ConfigurationError) Error() string {
	return e.msg
}

func NewConfigurationError(format string, args ...any) error {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
