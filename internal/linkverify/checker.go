// Package linkverify performs best-effort liveness checks of external URLs.
//
// A Checker belongs to one scan: results are cached per URL for its
// lifetime and concurrent callers asking about the same URL share a single
// in-flight request, so no URL is ever checked twice per run.
package linkverify

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/retry"
	"git.home.luguber.info/inful/doclinks/internal/version"
)

const (
	// DefaultTimeout bounds one check, HEAD and GET fallback together.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxRedirects is the redirect hop limit.
	DefaultMaxRedirects = 10

	// maxDrain is how much of a response body is read before closing so
	// the connection can be reused.
	maxDrain = 64 << 10
)

// ReasonTimeout is reported when a check exceeds its deadline.
const ReasonTimeout = "timeout"

// Result is the outcome of checking one URL.
type Result struct {
	OK     bool
	Reason string
}

// Options configures a Checker. Zero values select defaults, except
// MaxRedirects where zero disables following redirects and a negative
// value selects DefaultMaxRedirects.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	MaxRedirects int
	Retry        retry.Policy
	// Client overrides the HTTP client, mainly for tests. Its redirect
	// policy is left untouched.
	Client   *http.Client
	Recorder metrics.Recorder
}

// Checker checks external URLs with a per-run cache.
type Checker struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	policy    retry.Policy
	recorder  metrics.Recorder

	mu    sync.Mutex
	cache map[string]Result
	group singleflight.Group
}

// NewChecker creates a Checker with an empty cache.
func NewChecker(opts Options) *Checker {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = version.UserAgent()
	}
	if opts.MaxRedirects < 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.Retry == (retry.Policy{}) {
		opts.Retry = retry.DefaultPolicy()
	} else if err := opts.Retry.Validate(); err != nil {
		slog.Warn("Invalid retry policy, using default", logfields.Error(err))
		opts.Retry = retry.DefaultPolicy()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}

	client := opts.Client
	if client == nil {
		// Clone keeps proxy settings from the environment.
		transport := http.DefaultTransport.(*http.Transport).Clone()
		maxRedirects := opts.MaxRedirects
		client = &http.Client{
			Transport: transport,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if maxRedirects == 0 {
					return http.ErrUseLastResponse
				}
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}

	return &Checker{
		client:    client,
		timeout:   opts.Timeout,
		userAgent: opts.UserAgent,
		policy:    opts.Retry,
		recorder:  opts.Recorder,
		cache:     make(map[string]Result),
	}
}

// Check returns the cached result for url or performs the check. It never
// returns an error; failures are described by Result.Reason.
func (c *Checker) Check(ctx context.Context, url string) Result {
	if r, ok := c.Cached(url); ok {
		c.recorder.IncExternalCacheHit()
		return r
	}

	v, _, _ := c.group.Do(url, func() (any, error) {
		// A caller that missed the cache while another call was storing
		// its result lands here after the flight has ended.
		if r, ok := c.Cached(url); ok {
			c.recorder.IncExternalCacheHit()
			return r, nil
		}

		start := time.Now()
		r, retries := retry.Do(ctx, c.policy, func(ctx context.Context) (Result, bool) {
			return c.probe(ctx, url)
		})
		for range retries {
			c.recorder.IncExternalRetry()
		}
		elapsed := time.Since(start)
		c.recorder.ObserveExternalCheck(elapsed, r.OK)

		attrs := []any{logfields.URL(url), logfields.DurationMS(float64(elapsed.Milliseconds()))}
		if !r.OK {
			attrs = append(attrs, logfields.Reason(r.Reason))
		}
		slog.Debug("Checked external link", attrs...)

		// A cancelled run says nothing about the URL.
		if ctx.Err() != nil && !stdErrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return r, nil
		}
		c.mu.Lock()
		c.cache[url] = r
		c.mu.Unlock()
		return r, nil
	})
	return v.(Result)
}

// Cached returns the stored result for url, if any.
func (c *Checker) Cached(url string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.cache[url]
	return r, ok
}

// probe performs one HEAD (and possibly GET) round trip under a single
// deadline. The second return value reports a transient failure worth
// retrying.
func (c *Checker) probe(ctx context.Context, url string) (Result, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, err := c.request(ctx, http.MethodHead, url)
	if err == nil && retryWithGet(status) {
		status, err = c.request(ctx, http.MethodGet, url)
	}
	if err != nil {
		if stdErrors.Is(err, context.DeadlineExceeded) || stdErrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{OK: false, Reason: ReasonTimeout}, true
		}
		var ce *errors.ClassifiedError
		if stdErrors.As(err, &ce) && ce.Cause() != nil {
			return Result{OK: false, Reason: ce.Cause().Error()}, false
		}
		return Result{OK: false, Reason: err.Error()}, true
	}

	if status >= 200 && status < 300 {
		return Result{OK: true}, false
	}
	slog.Debug("Unexpected HTTP status", logfields.URL(url), logfields.Status(status))
	return Result{OK: false, Reason: fmt.Sprintf("HTTP %d", status)}, status == http.StatusTooManyRequests || status >= 500
}

// request issues one request and releases its connection before returning.
func (c *Checker) request(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, errors.NetworkError("failed to create request").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	return resp.StatusCode, nil
}

// retryWithGet reports statuses returned by servers that reject HEAD.
func retryWithGet(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusForbidden, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}
