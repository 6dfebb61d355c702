package commands

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/doclinks/internal/anchors"
)

// SlugCmd prints the slug for heading text.
type SlugCmd struct {
	Text []string `arg:"" help:"Heading text"`
}

func (s *SlugCmd) Run(g *Global) error {
	_, err := fmt.Fprintln(g.stdout(), anchors.Slugify(strings.Join(s.Text, " ")))
	return err
}
