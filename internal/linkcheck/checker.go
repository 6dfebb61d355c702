package linkcheck

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/doclinks/internal/anchors"
	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/linkverify"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/retry"
	"git.home.luguber.info/inful/doclinks/internal/siteroot"
)

// Options configures a scan.
type Options struct {
	// Pattern selects documents relative to the scan root.
	Pattern string
	// Ignore excludes documents; nil selects config.DefaultIgnore.
	Ignore   []string
	External ExternalOptions
	Markdown markdown.Options
}

// ExternalOptions controls external URL checks.
type ExternalOptions struct {
	Enabled      bool
	Timeout      time.Duration
	Concurrency  int
	UserAgent    string
	// MaxRedirects of zero reports redirects instead of following them.
	MaxRedirects int
	Retry        retry.Policy
	// Client overrides the HTTP client used for checks.
	Client *http.Client
}

// OptionsFromConfig maps loaded configuration to scan options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Pattern: cfg.Check.Pattern,
		Ignore:  cfg.Check.Ignore,
		External: ExternalOptions{
			Enabled:      cfg.External.Enabled,
			Timeout:      cfg.External.TimeoutDuration(),
			Concurrency:  cfg.External.Concurrency,
			UserAgent:    cfg.External.UserAgent,
			MaxRedirects: cfg.External.MaxRedirects,
			Retry:        retry.FromConfig(cfg.External),
		},
	}
}

// Checker drives link validation over a directory. Each Run starts with
// fresh anchor and external caches.
type Checker struct {
	opts     Options
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a Checker.
func New(opts Options) *Checker {
	if opts.Pattern == "" {
		opts.Pattern = config.DefaultPattern
	}
	if opts.Ignore == nil {
		opts.Ignore = config.DefaultIgnore()
	}
	if opts.External.Concurrency < 1 {
		opts.External.Concurrency = 1
	}
	return &Checker{opts: opts, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
}

// WithRecorder sets the metrics recorder.
func (c *Checker) WithRecorder(r metrics.Recorder) *Checker {
	if r != nil {
		c.recorder = r
	}
	return c
}

// WithLogger sets the logger used for run-level messages.
func (c *Checker) WithLogger(l *slog.Logger) *Checker {
	if l != nil {
		c.logger = l
	}
	return c
}

// document is one discovered file after reading and extraction.
type document struct {
	path    string
	rel     string
	readErr error
	links   []markdown.Link
}

// Run scans dir and returns the report. Only an unusable scan root or
// invalid patterns return an error; per-document failures become report
// entries. Cancellation is honoured between documents.
func (c *Checker) Run(ctx context.Context, dir string) (*Report, error) {
	start := time.Now()

	roots, err := siteroot.Resolve(dir)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Checking links",
		logfields.Path(roots.ScanRoot),
		slog.String("publish_root", roots.PublishRoot),
		slog.String("repo_name", roots.RepoName))

	files, err := Discover(roots.ScanRoot, c.opts.Pattern, c.opts.Ignore)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Found markdown files", logfields.FileCount(len(files)))

	docs := make([]document, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, c.cancelled(err)
		}
		docs = append(docs, c.load(roots.ScanRoot, path))
	}

	var external ExternalChecker
	if c.opts.External.Enabled {
		checker := linkverify.NewChecker(linkverify.Options{
			Timeout:      c.opts.External.Timeout,
			UserAgent:    c.opts.External.UserAgent,
			MaxRedirects: c.opts.External.MaxRedirects,
			Retry:        c.opts.External.Retry,
			Client:       c.opts.External.Client,
			Recorder:     c.recorder,
		})
		if c.opts.External.Concurrency > 1 {
			if err := checker.Prefetch(ctx, externalURLs(docs), c.opts.External.Concurrency); err != nil {
				return nil, c.cancelled(err)
			}
		}
		external = checker
	}

	resolver := NewResolver(roots, anchors.NewIndex(), external)
	report := newReport()
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, c.cancelled(err)
		}
		c.check(ctx, resolver, doc, report)
	}
	report.summarize()

	outcome := metrics.ResultSuccess
	if !report.Summary.Success {
		outcome = metrics.ResultFailed
	}
	c.recorder.IncRunOutcome(outcome)
	c.recorder.ObserveRunDuration(time.Since(start))
	c.logger.Info("Link check complete",
		logfields.FileCount(report.Summary.TotalFiles),
		logfields.LinkCount(report.Summary.TotalLinks),
		slog.Int("broken", report.Summary.BrokenLinks),
		slog.Int("external_warnings", report.Summary.ExternalWarnings),
		slog.Int("read_errors", report.Summary.FileReadErrors),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return report, nil
}

func (c *Checker) cancelled(err error) error {
	c.recorder.IncRunOutcome(metrics.ResultCanceled)
	return err
}

func (c *Checker) load(root, path string) document {
	doc := document{path: path, rel: relPath(root, path)}

	content, err := os.ReadFile(path)
	if err != nil {
		doc.readErr = err
		return doc
	}

	links, err := markdown.ExtractLinks(content, c.opts.Markdown)
	if err != nil {
		slog.Warn("Failed to parse markdown; no links extracted", logfields.File(doc.rel), logfields.Error(err))
		return doc
	}
	doc.links = links
	return doc
}

func (c *Checker) check(ctx context.Context, resolver *Resolver, doc document, report *Report) {
	if doc.readErr != nil {
		report.FileReadErrors = append(report.FileReadErrors, FileReadError{File: doc.rel, Message: doc.readErr.Error()})
		slog.Warn("Failed to read document", logfields.File(doc.rel), logfields.Error(doc.readErr))
		c.recorder.IncDocument(metrics.DocumentReadError)
		return
	}
	if len(doc.links) == 0 {
		c.recorder.IncDocument(metrics.DocumentNoLinks)
		return
	}
	c.recorder.IncDocument(metrics.DocumentChecked)
	slog.Debug("Checking document", logfields.File(doc.rel), logfields.LinkCount(len(doc.links)))

	details := make([]Detail, 0, len(doc.links))
	for _, link := range doc.links {
		out := resolver.Resolve(ctx, link.Destination, doc.path)
		c.recorder.IncLink(out.Kind.String(), out.Valid)

		details = append(details, Detail{
			Line:       link.Line,
			Column:     link.Column,
			Text:       link.Text,
			URL:        link.Destination,
			Valid:      out.Valid,
			Type:       out.Kind,
			Reason:     out.Reason,
			ExternalOK: out.ExternalOK,
		})

		entry := Entry{
			File:   doc.rel,
			Line:   link.Line,
			Column: link.Column,
			URL:    link.Destination,
			Text:   link.Text,
			Reason: out.Reason,
		}
		switch {
		case !out.Valid:
			report.BrokenLinks = append(report.BrokenLinks, entry)
			slog.Debug("Broken link", logfields.File(doc.rel), logfields.Line(link.Line),
				logfields.URL(link.Destination), logfields.Reason(out.Reason))
		case out.Warning():
			report.ExternalWarnings = append(report.ExternalWarnings, entry)
		}
	}
	report.FileDetails = append(report.FileDetails, FileDetail{File: doc.rel, Links: details})
}

func externalURLs(docs []document) []string {
	var urls []string
	for _, doc := range docs {
		for _, link := range doc.links {
			if strings.HasPrefix(link.Destination, "http://") || strings.HasPrefix(link.Destination, "https://") {
				urls = append(urls, link.Destination)
			}
		}
	}
	return urls
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func newReport() *Report {
	return &Report{
		BrokenLinks:      []Entry{},
		ExternalWarnings: []Entry{},
		FileReadErrors:   []FileReadError{},
		FileDetails:      FileDetails{},
	}
}

// summarize fills in the counters. Documents without links are not part
// of fileDetails and are not counted in totalFiles.
func (r *Report) summarize() {
	total := 0
	for _, fd := range r.FileDetails {
		total += len(fd.Links)
	}
	r.Summary = Summary{
		TotalFiles:       len(r.FileDetails),
		TotalLinks:       total,
		BrokenLinks:      len(r.BrokenLinks),
		ExternalWarnings: len(r.ExternalWarnings),
		FileReadErrors:   len(r.FileReadErrors),
		Success:          len(r.BrokenLinks) == 0 && len(r.FileReadErrors) == 0,
	}
}
