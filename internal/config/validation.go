package config

import (
	"fmt"
	"strings"
)

// ValidationError reports one malformed configuration field. Grounded on
// the teacher's internal/config/validation.go ValidationError/
// ValidationErrors shape, trimmed to the Runner/Logging fields this
// engine has.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: field '%s' with value '%v': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors batches several ValidationErrors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "; ")
}

// Validate checks cfg for internally-consistent values before it is
// turned into an egraft.RunConfig.
func Validate(cfg *Config) error {
	var errors ValidationErrors

	errors = append(errors, validateRunner(&cfg.Runner)...)
	errors = append(errors, validateLogging(&cfg.Logging)...)

	if cfg.Version == "" {
		errors = append(errors, ValidationError{Field: "version", Value: cfg.Version, Message: "version cannot be empty"})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func validateRunner(cfg *RunnerConfig) ValidationErrors {
	var errors ValidationErrors

	if cfg.IterLimit <= 0 {
		errors = append(errors, ValidationError{Field: "runner.iter_limit", Value: cfg.IterLimit, Message: "must be positive"})
	}
	if cfg.NodeLimit <= 0 {
		errors = append(errors, ValidationError{Field: "runner.node_limit", Value: cfg.NodeLimit, Message: "must be positive"})
	}
	if cfg.TimeLimit <= 0 {
		errors = append(errors, ValidationError{Field: "runner.time_limit", Value: cfg.TimeLimit, Message: "must be positive"})
	}

	validSchedulers := []string{"simple", "backoff"}
	if !contains(validSchedulers, cfg.Scheduler) {
		errors = append(errors, ValidationError{
			Field: "runner.scheduler", Value: cfg.Scheduler,
			Message: fmt.Sprintf("must be one of: %v", validSchedulers),
		})
	}

	if cfg.Scheduler == "backoff" {
		if cfg.Backoff.Threshold <= 0 {
			errors = append(errors, ValidationError{Field: "runner.backoff.threshold", Value: cfg.Backoff.Threshold, Message: "must be positive"})
		}
		if cfg.Backoff.InitialBan <= 0 {
			errors = append(errors, ValidationError{Field: "runner.backoff.initial_ban", Value: cfg.Backoff.InitialBan, Message: "must be positive"})
		}
	}

	return errors
}

func validateLogging(cfg *LoggingConfig) ValidationErrors {
	var errors ValidationErrors

	validLevels := []string{"warn", "debug", "trace"}
	if !contains(validLevels, cfg.Level) {
		errors = append(errors, ValidationError{
			Field: "logging.level", Value: cfg.Level,
			Message: fmt.Sprintf("must be one of: %v", validLevels),
		})
	}

	return errors
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
