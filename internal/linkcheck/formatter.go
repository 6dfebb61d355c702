package linkcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// Formatter writes a report.
type Formatter interface {
	Format(w io.Writer, report *Report) error
}

// NewFormatter returns the formatter for format.
func NewFormatter(format config.ReportFormat) Formatter {
	if format == config.ReportFormatJSON {
		return NewJSONFormatter()
	}
	return NewTextFormatter()
}

// TextFormatter writes the human-readable summary.
type TextFormatter struct{}

// NewTextFormatter creates a text formatter.
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// printer keeps the first write error so formatting can proceed linearly.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Format outputs the summary followed by broken links, read errors and
// external warnings.
func (f *TextFormatter) Format(w io.Writer, report *Report) error {
	p := &printer{w: w}
	s := report.Summary

	p.printf("\n📊 Link Check Summary\n")
	p.printf("%s\n", strings.Repeat("─", 40))
	p.printf("Total files checked: %d\n", s.TotalFiles)
	p.printf("Total links found: %d\n", s.TotalLinks)
	if s.FileReadErrors > 0 {
		p.printf("Files failed to read: %d\n", s.FileReadErrors)
	}
	if s.ExternalWarnings > 0 {
		p.printf("External link warnings: %d\n", s.ExternalWarnings)
	}

	if s.BrokenLinks == 0 {
		p.printf("\n✅ All links are valid!\n")
	} else {
		p.printf("\n❌ Found %d broken link%s:\n\n", s.BrokenLinks, pluralize(s.BrokenLinks))
		writeEntries(p, report.BrokenLinks)
	}

	if len(report.FileReadErrors) > 0 {
		p.printf("\n⚠️  Files that could not be read:\n\n")
		for _, fe := range report.FileReadErrors {
			p.printf("  %s\n", fe.File)
			p.printf("    Error: %s\n\n", fe.Message)
		}
	}

	if len(report.ExternalWarnings) > 0 {
		p.printf("\n⚠️  External link warnings (best-effort):\n\n")
		writeEntries(p, report.ExternalWarnings)
	}
	return p.err
}

func writeEntries(p *printer, entries []Entry) {
	for _, e := range entries {
		p.printf("  %s:%d:%d\n", e.File, e.Line, e.Column)
		p.printf("    Link: [%s](%s)\n", e.Text, e.URL)
		p.printf("    Reason: %s\n\n", e.Reason)
	}
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// JSONFormatter writes the report as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format encodes report with two-space indentation and a trailing newline.
func (f *JSONFormatter) Format(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// WriteReport writes the JSON report to path, creating parent directories.
func WriteReport(path string, report *Report) error {
	var buf bytes.Buffer
	if err := NewJSONFormatter().Format(&buf, report); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode report").Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create report directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write report").
			WithContext("path", path).
			Build()
	}
	return nil
}
