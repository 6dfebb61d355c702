package anchors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIndex_PercentEncodedHeadingText(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "page.md", "# Page\n\n## My Title\n")
	idx := NewIndex()

	for _, anchor := range []string{"My%20Title", "my-title", "MY-TITLE", " my-title "} {
		ok, err := idx.Has(path, anchor)
		require.NoError(t, err)
		require.True(t, ok, anchor)
	}

	ok, err := idx.Has(path, "other")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndex_DuplicateHeadings(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "notes.md", "## Notes\n\ntext\n\n## Notes\n")
	idx := NewIndex()

	ok, err := idx.Has(path, "notes")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = idx.Has(path, "notes-1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = idx.Has(path, "notes-2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndex_ExplicitIDs(t *testing.T) {
	content := "" +
		"## Setup {#Quick-Start}\n\n" +
		"Paragraph\n{: #Attr-List }\n\n" +
		"<a id=\"Raw\"></a>\n\n" +
		"Inline <span id='Inline-Span'>x</span>\n"
	path := writeDoc(t, t.TempDir(), "ids.md", content)
	idx := NewIndex()

	anchors, err := idx.Anchors(path)
	require.NoError(t, err)
	require.Equal(t, []string{"attr-list", "inline-span", "quick-start", "raw", "setup"}, anchors)

	for _, anchor := range []string{"quick-start", "QUICK-START", "Setup", "attr-list", "raw", "RAW", "inline-span"} {
		ok, err := idx.Has(path, anchor)
		require.NoError(t, err)
		require.True(t, ok, anchor)
	}
}

func TestIndex_HeadingsInCodeBlocksAreIgnored(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "code.md", "```\n# Not a heading\n```\n")
	ok, err := NewIndex().Has(path, "not-a-heading")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndex_UnicodeHeadings(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "ja.md", "# はじめに\n\n## インストール 手順\n")
	idx := NewIndex()

	for _, anchor := range []string{"はじめに", "インストール-手順", "%E3%81%AF%E3%81%98%E3%82%81%E3%81%AB"} {
		ok, err := idx.Has(path, anchor)
		require.NoError(t, err)
		require.True(t, ok, anchor)
	}
}

func TestIndex_MalformedEscapeFallsBackToRaw(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "pct.md", "## 100%\n")
	ok, err := NewIndex().Has(path, "100%")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIndex_NonMarkdownAlwaysValid(t *testing.T) {
	idx := NewIndex()
	ok, err := idx.Has(filepath.Join(t.TempDir(), "missing.html"), "anything")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestIndex_MissingMarkdownIsAnError(t *testing.T) {
	_, err := NewIndex().Has(filepath.Join(t.TempDir(), "missing.md"), "x")
	require.Error(t, err)
}

func TestIndex_SetIsBuiltOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeDoc(t, dir, "once.md", "# First\n")
	idx := NewIndex()

	ok, err := idx.Has(path, "first")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("# Second\n"), 0o600))

	ok, err = idx.Has(path, "first")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = idx.Has(path, "second")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIndex_FrontMatterIsNotAHeading(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "fm.md", "---\ntitle: x\n---\n# Real\n")
	anchors, err := NewIndex().Anchors(path)
	require.NoError(t, err)
	require.Equal(t, []string{"real"}, anchors)
}

func TestDecodeComponent(t *testing.T) {
	require.Equal(t, "a b", DecodeComponent("a%20b"))
	require.Equal(t, "a+b", DecodeComponent("a+b"))
	require.Equal(t, "100%", DecodeComponent("100%"))
	require.Equal(t, "%ff", DecodeComponent("%ff"))
}

func TestHTMLIDs(t *testing.T) {
	ids := htmlIDs("<div ID=\"Top\">\n<span id='inner'></span></div>\n<a id=\"\"></a>\n<p>no id</p>\n<img id=\" Pic \">\n")
	require.Equal(t, []string{"top", "inner", "pic"}, ids)
	require.Nil(t, htmlIDs("  \n"))
}

func TestIndex_UnclosedRawTextElementDoesNotHideLaterIDs(t *testing.T) {
	content := "# Page\n\nPress <textarea> to edit and <title> too.\n\n<div id=\"Later\"></div>\n\nSee <span id=\"later2\">here</span>.\n"
	path := writeDoc(t, t.TempDir(), "raw.md", content)
	idx := NewIndex()

	for _, anchor := range []string{"Later", "later2", "page"} {
		ok, err := idx.Has(path, anchor)
		require.NoError(t, err)
		require.True(t, ok, anchor)
	}
}
