package config

import (
	"strings"
	"time"

	"github.com/gobwas/glob"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// Validate checks bounds and enumerations. Every violation is a fatal
// config-category error naming the offending field.
func Validate(cfg *Config) error {
	if err := validateCheck(&cfg.Check); err != nil {
		return err
	}
	if err := validateExternal(&cfg.External); err != nil {
		return err
	}
	switch cfg.Output.Format {
	case ReportFormatText, ReportFormatJSON:
	default:
		return invalid("output.format", "must be text or json", cfg.Output.Format)
	}
	return nil
}

func validateCheck(c *CheckConfig) error {
	if c.Pattern == "" {
		return invalid("check.pattern", "cannot be empty", c.Pattern)
	}
	if err := compiles("check.pattern", c.Pattern); err != nil {
		return err
	}
	for _, pattern := range c.Ignore {
		if err := compiles("check.ignore", pattern); err != nil {
			return err
		}
	}
	return nil
}

func compiles(field, pattern string) error {
	if _, err := glob.Compile(pattern, '/'); err != nil {
		return errors.ConfigError("invalid glob pattern").
			WithCause(err).
			WithContext("field", field).
			WithContext("value", pattern).
			Build()
	}
	return nil
}

func validateExternal(e *ExternalConfig) error {
	if err := positiveDuration("external.timeout", e.Timeout); err != nil {
		return err
	}
	if e.Concurrency < 1 {
		return invalid("external.concurrency", "must be at least 1", e.Concurrency)
	}
	if e.MaxRedirects < 0 {
		return invalid("external.max_redirects", "cannot be negative", e.MaxRedirects)
	}
	if e.Retries < 0 {
		return invalid("external.retries", "cannot be negative", e.Retries)
	}
	switch e.RetryBackoff {
	case RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential:
	default:
		return invalid("external.retry_backoff", "must be fixed, linear or exponential", e.RetryBackoff)
	}
	if err := positiveDuration("external.retry_initial_delay", e.RetryInitialDelay); err != nil {
		return err
	}
	return positiveDuration("external.retry_max_delay", e.RetryMaxDelay)
}

func positiveDuration(field, raw string) error {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return errors.ConfigError("invalid duration").
			WithCause(err).
			WithContext("field", field).
			WithContext("value", raw).
			Build()
	}
	if d <= 0 {
		return invalid(field, "must be greater than zero", raw)
	}
	return nil
}

func invalid(field, message string, value any) error {
	return errors.ConfigError(field+" "+message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
