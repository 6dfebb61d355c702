package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "classified config error", err: ConfigError("bad config").Build(), expected: 1},
		{name: "classified filesystem error", err: FileSystemError("missing root").Fatal().Build(), expected: 1},
		{name: "unclassified error", err: errors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("expected exit code %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := FileSystemError("scan root does not exist").
		Fatal().
		WithContext("path", "/nope").
		WithCause(errors.New("stat /nope: no such file or directory")).
		Build()

	quiet := NewCLIErrorAdapter(false, nil)
	got := quiet.FormatError(err)
	if got != "Error: scan root does not exist: stat /nope: no such file or directory" {
		t.Errorf("unexpected message: %q", got)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if !strings.Contains(verbose.FormatError(err), "path: /nope") {
		t.Errorf("verbose output should include context, got %q", verbose.FormatError(err))
	}

	if quiet.FormatError(errors.New("plain")) != "Error: plain" {
		t.Errorf("unexpected unclassified format: %q", quiet.FormatError(errors.New("plain")))
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, nil).WithWriter(&out)

	code := adapter.HandleError(ConfigError("invalid format").Build())
	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(out.String(), "invalid format") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if adapter.HandleError(nil) != 0 {
		t.Error("nil error should map to exit code 0")
	}
}
