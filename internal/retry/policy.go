// Package retry computes backoff delays for transient external failures.
package retry

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/doclinks/internal/config"
)

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // base delay
	Max        time.Duration           // cap for growth
	MaxRetries int                     // maximum retry attempts after the first failure
}

// DefaultPolicy returns the policy used when nothing is configured: linear,
// 500ms initial, 5s cap, no retries.
func DefaultPolicy() Policy {
	return Policy{
		Mode:       config.RetryBackoffLinear,
		Initial:    config.DefaultRetryInitialDelay,
		Max:        config.DefaultRetryMaxDelay,
		MaxRetries: 0,
	}
}

// NewPolicy builds a policy from raw config fields; zero/invalid values fall back to defaults.
func NewPolicy(mode config.RetryBackoffMode, initial, maxDuration time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	if initial > 0 {
		p.Initial = initial
	}
	if maxDuration > 0 {
		p.Max = maxDuration
	}
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	if p.Initial > p.Max {
		p.Initial = p.Max
	}
	return p
}

// FromConfig builds the policy for external link checks.
func FromConfig(ext config.ExternalConfig) Policy {
	return NewPolicy(ext.RetryBackoff, ext.RetryInitialDelayDuration(), ext.RetryMaxDelayDuration(), ext.Retries)
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case config.RetryBackoffFixed:
		return p.Initial
	case config.RetryBackoffExponential:
		// Shifting past the cap's magnitude overflows; stop early.
		d := p.Initial
		for i := 1; i < retryCount && d < p.Max; i++ {
			d *= 2
		}
		return min(d, p.Max)
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		return min(d, p.Max)
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	return nil
}

// Do calls op until it reports a non-transient outcome or the retries are
// spent, sleeping Delay(n) before the n-th retry. It returns the last
// outcome and the number of retries made. Cancellation of ctx during a
// backoff returns the last outcome immediately.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, bool)) (T, int) {
	result, transient := op(ctx)
	retries := 0
	for transient && retries < p.MaxRetries {
		retries++
		timer := time.NewTimer(p.Delay(retries))
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, retries - 1
		case <-timer.C:
		}
		result, transient = op(ctx)
	}
	return result, retries
}
