package linkcheck

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover_DefaultIgnoresAndHiddenEntries(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"b/c.md":                  "",
		"a.md":                    "",
		"notes.txt":               "",
		"node_modules/x.md":       "",
		"docs/node_modules/y.md":  "",
		"templates/t.md":          "",
		"site/templates/t.md":     "",
		"examples/e.md":           "",
		"z/examples/f.md":         "",
		".hidden/h.md":            "",
		".draft.md":               "",
		"docs/guide/index.md":     "",
		"docs/guide/.swap.md":     "",
		"docs/guide/README.MD.md": "",
	})

	found, err := Discover(root, config.DefaultPattern, config.DefaultIgnore())
	require.NoError(t, err)
	require.Equal(t, []string{
		"a.md",
		"b/c.md",
		"docs/guide/README.MD.md",
		"docs/guide/index.md",
	}, relAll(t, root, found))
}

func TestDiscover_SingleStarStaysInSegment(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.md":        "",
		"nested/sub.md": "",
	})

	found, err := Discover(root, "*.md", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"top.md"}, relAll(t, root, found))
}

func TestDiscover_LeadingDoubleStarMatchesRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"guide.md":       "",
		"deep/er/doc.md": "",
	})

	found, err := Discover(root, "**/*.md", []string{})
	require.NoError(t, err)
	require.Equal(t, []string{"deep/er/doc.md", "guide.md"}, relAll(t, root, found))
}

func TestDiscover_CustomIgnoreReplacesDefaults(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"node_modules/x.md": "",
		"drafts/wip.md":     "",
		"ok.md":             "",
	})

	found, err := Discover(root, "**/*.md", []string{"drafts/**"})
	require.NoError(t, err)
	require.Equal(t, []string{"node_modules/x.md", "ok.md"}, relAll(t, root, found))
}

func TestDiscover_InvalidPattern(t *testing.T) {
	_, err := Discover(t.TempDir(), "[", nil)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
