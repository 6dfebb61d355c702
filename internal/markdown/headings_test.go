package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeadings_RawSourceInOrder(t *testing.T) {
	src := []byte("# Intro\n\nText\n\n## Setup **fast** {#quick}\n\nSetext\n======\n")
	doc, err := Parse(src, Options{})
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 3)
	require.Equal(t, Heading{Level: 1, Text: "Intro", Line: 1}, headings[0])
	require.Equal(t, Heading{Level: 2, Text: "Setup **fast** {#quick}", Line: 5}, headings[1])
	require.Equal(t, "Setext", headings[2].Text)
	require.Equal(t, 1, headings[2].Level)
}

func TestHeadings_IgnoresFencedCode(t *testing.T) {
	doc, err := Parse([]byte("```\n# not a heading\n```\n"), Options{})
	require.NoError(t, err)
	require.Empty(t, doc.Headings())
}

func TestHeadings_FrontMatterIsNotAHeading(t *testing.T) {
	doc, err := Parse([]byte("---\ntitle: x\n---\n# Real\n"), Options{})
	require.NoError(t, err)

	headings := doc.Headings()
	require.Len(t, headings, 1)
	require.Equal(t, "Real", headings[0].Text)
	require.Equal(t, 4, headings[0].Line)
}

func TestRawHTML_CollectsBlocksAndInline(t *testing.T) {
	src := []byte("<div id=\"block\">\nhello\n</div>\n\nInline <a id=\"inline\"></a> text.\n")
	doc, err := Parse(src, Options{})
	require.NoError(t, err)

	raw := doc.RawHTML()
	require.Len(t, raw, 3)
	require.True(t, strings.HasPrefix(raw[0], `<div id="block">`))
	require.Equal(t, `<a id="inline">`, raw[1])
	require.Equal(t, `</a>`, raw[2])
}
