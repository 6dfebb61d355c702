// Package anchors builds the set of fragment identifiers a Markdown document
// defines and answers whether a requested anchor exists.
package anchors

import (
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

var (
	headingIDPattern      = regexp.MustCompile(`\{#([A-Za-z0-9][A-Za-z0-9_-]*)\}`)
	headingIDStripPattern = regexp.MustCompile(`\s*\{#[A-Za-z0-9][A-Za-z0-9_-]*\}\s*`)
	attributeListPattern  = regexp.MustCompile(`\{:\s*#([A-Za-z0-9][A-Za-z0-9_-]*)\s*\}`)
)

// Index caches the anchor set of every document it is asked about. Sets are
// built on first lookup and never change afterwards, so one Index must not
// outlive a single scan.
type Index struct {
	mu    sync.Mutex
	cache map[string]sets.Set[string]
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{cache: make(map[string]sets.Set[string])}
}

// IsMarkdown reports whether anchors of path can be inspected.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// Has reports whether anchor is defined by the document at path.
//
// Targets that are not Markdown always validate. The anchor is
// percent-decoded when possible and lowercased; it matches when it is
// registered verbatim or when its slug is.
func (x *Index) Has(path, anchor string) (bool, error) {
	if !IsMarkdown(path) {
		return true, nil
	}
	set, err := x.load(path)
	if err != nil {
		return false, err
	}

	normalized := Normalize(anchor)
	if set.Has(normalized) {
		return true, nil
	}
	slug := Slugify(normalized)
	return slug != "" && set.Has(slug), nil
}

// Anchors returns the sorted anchors defined by the document at path.
func (x *Index) Anchors(path string) ([]string, error) {
	set, err := x.load(path)
	if err != nil {
		return nil, err
	}
	return sets.Sorted(set), nil
}

func (x *Index) load(path string) (sets.Set[string], error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if set, ok := x.cache[path]; ok {
		return set, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystemError("cannot read anchor target").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	set, err := Collect(content)
	if err != nil {
		return nil, err
	}
	x.cache[path] = set
	slog.Debug("Indexed anchors", logfields.Path(path), slog.Int("anchor_count", set.Len()))
	return set, nil
}

// Collect returns every anchor a Markdown document defines: heading slugs,
// explicit heading IDs ({#id}), block attribute IDs ({: #id}) and id
// attributes in raw HTML. All anchors are lowercase.
func Collect(content []byte) (sets.Set[string], error) {
	doc, err := markdown.Parse(content, markdown.Options{DisableLinkify: true})
	if err != nil {
		return nil, err
	}

	set := sets.New[string]()
	slugger := NewSlugger()
	for _, h := range doc.Headings() {
		for _, m := range headingIDPattern.FindAllStringSubmatch(h.Text, -1) {
			set.Add(lower(m[1]))
		}
		cleaned := strings.TrimSpace(headingIDStripPattern.ReplaceAllString(h.Text, " "))
		if slug := slugger.Slug(cleaned); slug != "" {
			set.Add(slug)
		}
	}

	for _, fragment := range doc.RawHTML() {
		for _, id := range htmlIDs(fragment) {
			set.Add(id)
		}
	}
	for _, m := range attributeListPattern.FindAllSubmatch(content, -1) {
		set.Add(lower(string(m[1])))
	}
	return set, nil
}

// htmlIDs returns the lowercased, non-empty id attribute values of every
// element in one raw HTML fragment. Fragments are parsed separately so an
// unclosed raw-text element such as <title> cannot hide later ids.
func htmlIDs(fragment string) []string {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		slog.Debug("Stopped scanning raw HTML", logfields.Error(err))
		return nil
	}

	var ids []string
	goquery.NewDocumentFromNode(root).Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		if id := lower(strings.TrimSpace(sel.AttrOr("id", ""))); id != "" {
			ids = append(ids, id)
		}
	})
	return ids
}

// Normalize prepares a requested anchor for lookup: trim, percent-decode
// when the escapes are well formed, lowercase.
func Normalize(anchor string) string {
	anchor = strings.TrimSpace(anchor)
	return lower(DecodeComponent(anchor))
}

// DecodeComponent percent-decodes s, returning s unchanged when an escape is
// malformed or the result is not valid UTF-8.
func DecodeComponent(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil || !utf8.ValidString(decoded) {
		return s
	}
	return decoded
}
