// Package markdown tokenizes Markdown documents with goldmark and exposes the
// constructs the link checker needs: link and image references, headings,
// and raw HTML.
package markdown

import (
	"fmt"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/frontmatter"
)

// Options controls how Markdown is parsed for link analysis.
type Options struct {
	// DisableLinkify stops bare URLs in prose from being treated as links.
	DisableLinkify bool
}

// Document is a parsed Markdown body.
type Document struct {
	// Source is the Markdown body with any front matter removed.
	Source []byte
	// Root is the goldmark AST of Source.
	Root gmast.Node
	// LineOffset is the number of original file lines that precede Source.
	LineOffset int

	lines lineIndex
}

// Parse splits front matter and tokenizes the remaining body.
//
// goldmark does not report syntax errors; a panic inside the tokenizer is
// recovered and returned as a markdown-category error so one malformed
// document cannot abort a scan.
func Parse(src []byte, opts Options) (doc *Document, err error) {
	body, offset := frontmatter.Strip(src)

	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = errors.MarkdownError("markdown tokenizer failed").
				WithContext("panic", fmt.Sprint(r)).
				Build()
		}
	}()

	root := newEngine(opts).Parser().Parse(text.NewReader(body))
	return &Document{
		Source:     body,
		Root:       root,
		LineOffset: offset,
		lines:      newLineIndex(body),
	}, nil
}

// newEngine mirrors a CommonMark + GFM setup with footnotes, so `[^id]`
// markers become footnote nodes rather than links.
func newEngine(opts Options) goldmark.Markdown {
	exts := []goldmark.Extender{
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Footnote,
	}
	if !opts.DisableLinkify {
		exts = append(exts, extension.Linkify)
	}
	return goldmark.New(goldmark.WithExtensions(exts...))
}

// Position converts a byte offset in Source into a 1-based line and column
// of the original file.
func (d *Document) Position(offset int) (line, column int) {
	line, column = d.lines.position(d.Source, offset)
	return line + d.LineOffset, column
}
