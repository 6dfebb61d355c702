package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/doclinks/cmd/doclinks/commands"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cli := &commands.CLI{Stderr: stderr}
	parser, err := kong.New(cli,
		kong.Name("doclinks"),
		kong.Description("Validate links and anchors in Markdown documentation."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Vars{"version": version.String()},
	)
	if err != nil {
		_, _ = io.WriteString(stderr, err.Error()+"\n")
		return 1
	}

	ctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 1
	}

	err = ctx.Run(&commands.Global{Stdout: stdout}, cli)
	adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithWriter(stderr)
	return adapter.HandleError(err)
}
