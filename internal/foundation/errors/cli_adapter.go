package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// CLIErrorAdapter handles error presentation and exit code determination for the CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	out     io.Writer
}

// NewCLIErrorAdapter creates a new CLI error adapter writing to stderr.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		out:     os.Stderr,
	}
}

// WithWriter redirects user-facing error output.
func (a *CLIErrorAdapter) WithWriter(w io.Writer) *CLIErrorAdapter {
	if w != nil {
		a.out = w
	}
	return a
}

// ExitCodeFor determines the process exit code for an error.
//
// A run either succeeds (0) or it does not (1); fatal setup errors and
// failed checks share the same code so CI wrappers only need one rule.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// FormatError formats an error for user-facing display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}

	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(classified.Message())
	if cause := classified.Cause(); cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	if a.verbose && len(classified.Context()) > 0 {
		keys := make([]string, 0, len(classified.Context()))
		for k := range classified.Context() {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %v", k, classified.Context()[k])
		}
	}
	return b.String()
}

// HandleError logs and prints err and returns the exit code to use.
func (a *CLIErrorAdapter) HandleError(err error) int {
	if err == nil {
		return 0
	}
	if a.verbose {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.out, a.FormatError(err))
	return a.ExitCodeFor(err)
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", slog.String("error", err.Error()))
		return
	}

	attrs := []any{
		slog.String("category", string(classified.Category())),
		slog.String("severity", string(classified.Severity())),
	}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	a.logger.Log(context.Background(), a.slogLevelFromSeverity(classified.Severity()), classified.Message(), attrs...)
}

func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
