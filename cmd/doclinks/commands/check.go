package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/watch"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Directory to scan" type:"path"`

	Pattern         string        `short:"p" help:"Glob selecting Markdown files (default **/*.md)"`
	Ignore          []string      `short:"i" sep:"none" help:"Glob to exclude; repeatable, replaces the default list"`
	Output          string        `short:"o" help:"Write the JSON report to this file"`
	External        bool          `short:"e" help:"Check external http(s) links (failures are warnings)"`
	ExternalTimeout time.Duration `name:"external-timeout" help:"Timeout per external check (default 10s)"`
	Concurrency     int           `help:"Parallel external checks (default 1)"`
	Format          string        `short:"f" help:"Report format on stdout: text or json"`
	MetricsFile     string        `name:"metrics-file" help:"Write Prometheus text-format metrics to this file"`
	Watch           bool          `short:"w" help:"Re-run when files change until interrupted"`
}

// Run executes the check command.
func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if err := c.apply(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := c.runOnce(ctx, g, cfg)
	if err != nil {
		return err
	}
	if !c.Watch {
		return failureError(report)
	}

	slog.Info("Watching for changes", logfields.Path(c.Dir))
	w := watch.New(c.Dir, watch.DefaultDebounce, func(ctx context.Context) {
		if _, err := c.runOnce(ctx, g, cfg); err != nil && ctx.Err() == nil {
			slog.Error("Link check failed", logfields.Error(err))
		}
	})
	if err := w.Run(ctx); err != nil {
		return errors.FileSystemError("failed to watch directory").
			WithCause(err).
			WithContext("path", c.Dir).
			Build()
	}
	return nil
}

// apply overlays command-line flags onto the loaded configuration.
func (c *CheckCmd) apply(cfg *config.Config) error {
	if c.Pattern != "" {
		cfg.Check.Pattern = c.Pattern
	}
	if len(c.Ignore) > 0 {
		cfg.Check.Ignore = c.Ignore
	}
	if c.Output != "" {
		cfg.Output.Report = c.Output
	}
	if c.External {
		cfg.External.Enabled = true
	}
	if c.ExternalTimeout != 0 {
		cfg.External.Timeout = c.ExternalTimeout.String()
	}
	if c.Concurrency != 0 {
		cfg.External.Concurrency = c.Concurrency
	}
	if c.Format != "" {
		format := config.NormalizeReportFormat(c.Format)
		if format == "" {
			format = config.ReportFormat(c.Format)
		}
		cfg.Output.Format = format
	}
	if c.MetricsFile != "" {
		cfg.Output.MetricsFile = c.MetricsFile
	}
	return config.Validate(cfg)
}

func (c *CheckCmd) runOnce(ctx context.Context, g *Global, cfg *config.Config) (*linkcheck.Report, error) {
	logger := slog.Default().With(logfields.RunID(uuid.NewString()))

	checker := linkcheck.New(linkcheck.OptionsFromConfig(cfg)).WithLogger(logger)
	var reg *prometheus.Registry
	if cfg.Output.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		checker.WithRecorder(metrics.NewPrometheusRecorder(reg))
	}

	report, err := checker.Run(ctx, c.Dir)
	if err != nil {
		return nil, err
	}

	if err := linkcheck.NewFormatter(cfg.Output.Format).Format(g.stdout(), report); err != nil {
		return nil, errors.InternalError("failed to print report").WithCause(err).Build()
	}
	if cfg.Output.Report != "" {
		if err := linkcheck.WriteReport(cfg.Output.Report, report); err != nil {
			return nil, err
		}
		logger.Info("Report written", logfields.Path(cfg.Output.Report))
	}
	if reg != nil {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile, reg); err != nil {
			return nil, err
		}
		logger.Debug("Metrics written", logfields.Path(cfg.Output.MetricsFile))
	}
	return report, nil
}

// failureError maps an unsuccessful report to the error that sets the
// non-zero exit code.
func failureError(report *linkcheck.Report) error {
	if report.Summary.Success {
		return nil
	}
	return errors.ValidationError("link check failed").
		WithContext("broken_links", report.Summary.BrokenLinks).
		WithContext("file_read_errors", report.Summary.FileReadErrors).
		Build()
}
