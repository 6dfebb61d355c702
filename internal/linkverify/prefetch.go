package linkverify

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

// Prefetch warms the cache by checking urls with at most concurrency
// requests in flight. Duplicate URLs are checked once. It returns early
// with ctx.Err() when the context is cancelled.
func (c *Checker) Prefetch(ctx context.Context, urls []string, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	unique := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		unique = append(unique, u)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, u := range unique {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			c.Check(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	slog.Debug("Prefetched external links",
		slog.Int("url_count", len(unique)),
		slog.Int("concurrency", concurrency),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}
