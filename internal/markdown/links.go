package markdown

import (
	"bytes"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/util"
)

// LinkKind records which Markdown construct produced a reference.
type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
	LinkKindAuto   LinkKind = "auto"
)

// Link is one hyperlink or image reference found in a document.
type Link struct {
	Kind LinkKind `json:"-"`
	// Line and Column are 1-based positions in the original file.
	Line   int `json:"line"`
	Column int `json:"column"`
	// Text is the visible link text, or the alt text for images.
	Text string `json:"text"`
	// Destination is the href or image source with backslash escapes and
	// character references resolved.
	Destination string `json:"url"`
}

// ExtractLinks parses a Markdown document and returns its link and image
// references in document order.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(src []byte, opts Options) ([]Link, error) {
	doc, err := Parse(src, opts)
	if err != nil {
		return nil, err
	}
	return doc.Links(), nil
}

// Links walks the document and collects references. Footnote markers are
// separate node kinds and never appear here. Reference-style links arrive
// as ordinary Link nodes carrying the definition's destination.
func (d *Document) Links() []Link {
	links := make([]Link, 0)
	_ = gmast.Walk(d.Root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.Link:
			if len(node.Destination) > 0 {
				links = append(links, d.reference(LinkKindInline, node, node.Destination))
			}
		case *gmast.Image:
			if len(node.Destination) > 0 {
				links = append(links, d.reference(LinkKindImage, node, node.Destination))
			}
		case *gmast.AutoLink:
			links = append(links, d.autoLink(node))
		}
		return gmast.WalkContinue, nil
	})
	return links
}

func (d *Document) reference(kind LinkKind, n gmast.Node, dest []byte) Link {
	offset := blockStart(n)
	if textOffset, ok := firstTextOffset(n); ok {
		offset = openingBracket(d.Source, textOffset, kind == LinkKindImage)
	}
	line, column := d.Position(offset)
	return Link{
		Kind:        kind,
		Line:        line,
		Column:      column,
		Text:        strings.TrimSpace(d.inlineText(n)),
		Destination: string(resolveEscapes(bytes.Clone(dest))),
	}
}

func (d *Document) autoLink(n *gmast.AutoLink) Link {
	label := n.Label(d.Source)
	dest := string(n.URL(d.Source))
	if n.AutoLinkType == gmast.AutoLinkEmail && !strings.HasPrefix(strings.ToLower(dest), "mailto:") {
		dest = "mailto:" + dest
	}

	offset := blockStart(n)
	if i := bytes.Index(d.Source[offset:], label); i >= 0 {
		offset += i
		if offset > 0 && d.Source[offset-1] == '<' {
			offset--
		}
	}
	line, column := d.Position(offset)
	return Link{
		Kind:        LinkKindAuto,
		Line:        line,
		Column:      column,
		Text:        string(label),
		Destination: dest,
	}
}

// inlineText concatenates plain text, code span content, and image alt text
// below n. Escapes and entity references are resolved the way a renderer
// would, except inside code spans which are literal.
func (d *Document) inlineText(n gmast.Node) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			value := t.Segment.Value(d.Source)
			if _, inCode := t.Parent().(*gmast.CodeSpan); !inCode {
				value = resolveEscapes(value)
			}
			b.Write(value)
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *gmast.String:
			b.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return b.String()
}

func resolveEscapes(value []byte) []byte {
	value = util.UnescapePunctuations(value)
	value = util.ResolveNumericReferences(value)
	return util.ResolveEntityNames(value)
}
