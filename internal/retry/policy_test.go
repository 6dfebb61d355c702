package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/config"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, 500*time.Millisecond, p.Initial)
	require.Equal(t, 5*time.Second, p.Max)
	require.Equal(t, 0, p.MaxRetries)
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.External.Retries = 3
	cfg.External.RetryBackoff = config.RetryBackoffExponential
	cfg.External.RetryInitialDelay = "100ms"

	p := FromConfig(cfg.External)
	require.Equal(t, 3, p.MaxRetries)
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, 100*time.Millisecond, p.Initial)
	require.Equal(t, 5*time.Second, p.Max)
}

func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		require.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	require.Equal(t, 100*time.Millisecond, linear.Delay(1))
	require.Equal(t, 200*time.Millisecond, linear.Delay(2))
	require.Equal(t, 250*time.Millisecond, linear.Delay(3))
	require.Equal(t, 250*time.Millisecond, linear.Delay(4))

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	require.Equal(t, 50*time.Millisecond, exp.Delay(1))
	require.Equal(t, 100*time.Millisecond, exp.Delay(2))
	require.Equal(t, 160*time.Millisecond, exp.Delay(3))
	require.Equal(t, 160*time.Millisecond, exp.Delay(80))
}

func TestDelayEdgeCases(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, 20*time.Millisecond, 1)
	require.Zero(t, p.Delay(0))
	require.Zero(t, p.Delay(-1))
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: 0, Max: time.Second, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 0, MaxRetries: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 2 * time.Second, MaxRetries: -1}.Validate())
	require.NoError(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 2 * time.Second}.Validate())
}

func TestUnknownModeFallsBack(t *testing.T) {
	p := NewPolicy("weird", 250*time.Millisecond, 500*time.Millisecond, 1)
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
}

func TestDo_RetriesTransientOutcomes(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	got, retries := Do(context.Background(), p, func(context.Context) (int, bool) {
		calls++
		return calls, calls < 3
	})
	require.Equal(t, 3, got)
	require.Equal(t, 2, retries)
	require.Equal(t, 3, calls)
}

func TestDo_StopsWhenRetriesSpent(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	_, retries := Do(context.Background(), p, func(context.Context) (string, bool) {
		calls++
		return "fail", true
	})
	require.Equal(t, 2, retries)
	require.Equal(t, 3, calls)
}

func TestDo_NoRetriesByDefault(t *testing.T) {
	calls := 0
	_, retries := Do(context.Background(), DefaultPolicy(), func(context.Context) (bool, bool) {
		calls++
		return false, true
	})
	require.Zero(t, retries)
	require.Equal(t, 1, calls)
}

func TestDo_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 5)
	calls := 0
	got, _ := Do(ctx, p, func(context.Context) (int, bool) {
		calls++
		cancel()
		return calls, true
	})
	require.Equal(t, 1, got)
	require.Equal(t, 1, calls)
}
