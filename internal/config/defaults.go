package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/doclinks/internal/version"
)

const (
	DefaultPattern           = "**/*.md"
	DefaultExternalTimeout   = 10 * time.Second
	DefaultConcurrency       = 1
	DefaultMaxRedirects      = 10
	DefaultRetryInitialDelay = 500 * time.Millisecond
	DefaultRetryMaxDelay     = 5 * time.Second
)

// DefaultIgnore lists the directories skipped unless the ignore list is
// configured explicitly.
func DefaultIgnore() []string {
	return []string{
		"node_modules/**",
		"**/node_modules/**",
		"templates/**",
		"**/templates/**",
		"examples/**",
		"**/examples/**",
	}
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := seed()
	applyDefaults(&cfg)
	return cfg
}

// seed returns the decode target. Fields whose zero value is meaningful
// are preset here instead of in applyDefaults.
func seed() Config {
	return Config{External: ExternalConfig{MaxRedirects: DefaultMaxRedirects}}
}

// normalize case-folds enumerations. Unknown values are kept so Validate
// can report them.
func normalize(cfg *Config) {
	if cfg.External.RetryBackoff != "" {
		if m := NormalizeRetryBackoff(string(cfg.External.RetryBackoff)); m != "" {
			cfg.External.RetryBackoff = m
		}
	}
	if cfg.Output.Format != "" {
		if f := NormalizeReportFormat(string(cfg.Output.Format)); f != "" {
			cfg.Output.Format = f
		}
	}
	cfg.Check.Pattern = strings.TrimSpace(cfg.Check.Pattern)
}

func applyDefaults(cfg *Config) {
	if cfg.Check.Pattern == "" {
		cfg.Check.Pattern = DefaultPattern
	}
	if cfg.Check.Ignore == nil {
		cfg.Check.Ignore = DefaultIgnore()
	}

	ext := &cfg.External
	if ext.Timeout == "" {
		ext.Timeout = DefaultExternalTimeout.String()
	}
	if ext.Concurrency == 0 {
		ext.Concurrency = DefaultConcurrency
	}
	if ext.UserAgent == "" {
		ext.UserAgent = version.UserAgent()
	}
	if ext.RetryBackoff == "" {
		ext.RetryBackoff = RetryBackoffLinear
	}
	if ext.RetryInitialDelay == "" {
		ext.RetryInitialDelay = DefaultRetryInitialDelay.String()
	}
	if ext.RetryMaxDelay == "" {
		ext.RetryMaxDelay = DefaultRetryMaxDelay.String()
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = ReportFormatText
	}
}

// TimeoutDuration returns the parsed external check timeout.
func (e ExternalConfig) TimeoutDuration() time.Duration {
	return parseDurationOr(e.Timeout, DefaultExternalTimeout)
}

// RetryInitialDelayDuration returns the parsed first retry delay.
func (e ExternalConfig) RetryInitialDelayDuration() time.Duration {
	return parseDurationOr(e.RetryInitialDelay, DefaultRetryInitialDelay)
}

// RetryMaxDelayDuration returns the parsed retry delay cap.
func (e ExternalConfig) RetryMaxDelayDuration() time.Duration {
	return parseDurationOr(e.RetryMaxDelay, DefaultRetryMaxDelay)
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
