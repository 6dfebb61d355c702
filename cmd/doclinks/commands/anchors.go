package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/anchors"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// AnchorsCmd lists the anchors defined by one document.
type AnchorsCmd struct {
	File string `arg:"" help:"Markdown file" type:"path"`
}

func (a *AnchorsCmd) Run(g *Global) error {
	path, err := filepath.Abs(a.File)
	if err != nil {
		return errors.FileSystemError("failed to resolve path").WithCause(err).WithContext("path", a.File).Build()
	}
	if !anchors.IsMarkdown(path) {
		return errors.ValidationError("not a Markdown file").WithContext("path", a.File).Build()
	}

	list, err := anchors.NewIndex().Anchors(path)
	if err != nil {
		return err
	}
	for _, anchor := range list {
		if _, err := fmt.Fprintf(g.stdout(), "#%s\n", anchor); err != nil {
			return err
		}
	}
	return nil
}
