package config

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, ok := KeyCode(c.DummyKey); !ok {
		errs = append(errs, ValidationError{
			Field:   "dummy_key",
			Message: fmt.Sprintf("unknown key %q (one of: %s)", c.DummyKey, keyNames()),
		})
	}

	switch c.Policy.Mode {
	case ModeAlways, ModeHeld:
	default:
		errs = append(errs, ValidationError{
			Field:   "policy.mode",
			Message: fmt.Sprintf("must be %q or %q, got %q", ModeAlways, ModeHeld, c.Policy.Mode),
		})
	}
	if c.Policy.HoldThresholdMs < 0 {
		errs = append(errs, ValidationError{
			Field:   "policy.hold_threshold_ms",
			Message: "must not be negative",
		})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", c.Logging.Level),
		})
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", c.Logging.Format),
		})
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stderr", "stdout":
	default:
		errs = append(errs, ValidationError{
			Field:   "logging.output",
			Message: fmt.Sprintf("must be \"stderr\" or \"stdout\", got %q", c.Logging.Output),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func keyNames() string {
	names := make([]string, 0, len(keyCodes))
	for name := range keyCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
