// Package commands holds the doclinks subcommands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global carries state shared by all subcommands.
type Global struct {
	Stdout io.Writer
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Stdout == nil {
		return os.Stdout
	}
	return g.Stdout
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default .doclinks.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Check   CheckCmd   `cmd:"" default:"withargs" help:"Check links and anchors in Markdown files (default)"`
	Anchors AnchorsCmd `cmd:"" help:"List the anchors a Markdown document defines"`
	Slug    SlugCmd    `cmd:"" help:"Print the anchor slug generated for heading text"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`

	// Stderr receives log output; nil means os.Stderr.
	Stderr io.Writer `kong:"-"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	w := c.Stderr
	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
