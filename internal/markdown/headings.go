package markdown

import (
	"bytes"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// Heading is the raw inline source of an ATX or setext heading.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Headings returns every heading in document order. Text is the unrendered
// source of the heading content, so explicit-ID suffixes such as `{#id}`
// are preserved for the anchor indexer.
func (d *Document) Headings() []Heading {
	var headings []Heading
	_ = gmast.Walk(d.Root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		h, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}

		lines := h.Lines()
		parts := make([]string, 0, lines.Len())
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			parts = append(parts, string(bytes.TrimRight(seg.Value(d.Source), "\r\n")))
		}
		line, _ := d.Position(blockStart(h))
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  strings.TrimSpace(strings.Join(parts, "\n")),
			Line:  line,
		})
		return gmast.WalkSkipChildren, nil
	})
	return headings
}

// RawHTML returns the source of every HTML block and inline raw HTML node
// in document order, one fragment per node.
func (d *Document) RawHTML() []string {
	var fragments []string
	_ = gmast.Walk(d.Root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		var b strings.Builder
		switch node := n.(type) {
		case *gmast.HTMLBlock:
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(d.Source))
			}
			if node.HasClosure() {
				b.Write(node.ClosureLine.Value(d.Source))
			}
		case *gmast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(d.Source))
			}
		default:
			return gmast.WalkContinue, nil
		}
		fragments = append(fragments, b.String())
		return gmast.WalkContinue, nil
	})
	return fragments
}
