package anchors

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Slugify turns heading text into an anchor slug: trim, lowercase, keep
// only letters, numbers, whitespace and hyphens, turn whitespace runs into
// a hyphen, collapse hyphen runs and drop a leading or trailing hyphen.
//
// Non-ASCII letters are kept so headings in any script stay linkable.
func Slugify(text string) string {
	text = lower(strings.TrimFunc(text, isSpace))

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
		switch {
		case isSpace(r):
			pendingSpace = true
			continue
		case r == '-', unicode.IsLetter(r), unicode.IsNumber(r):
		default:
			continue
		}
		if pendingSpace {
			b.WriteByte('-')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	if pendingSpace {
		b.WriteByte('-')
	}
	return strings.TrimSuffix(strings.TrimPrefix(collapseHyphens(b.String()), "-"), "-")
}

// lower applies full Unicode lowercasing, including context-sensitive
// mappings such as a word-final sigma. A Caser carries state, so each call
// gets its own.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func collapseHyphens(s string) string {
	if !strings.Contains(s, "--") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := rune(0)
	for _, r := range s {
		if r == '-' && prev == '-' {
			continue
		}
		b.WriteRune(r)
		prev = r
	}
	return b.String()
}

// isSpace matches the ECMAScript \s class: Unicode White_Space without
// NEL, plus the byte order mark.
func isSpace(r rune) bool {
	switch r {
	case '\u0085':
		return false
	case '\uFEFF':
		return true
	}
	return unicode.IsSpace(r)
}

// Slugger hands out unique slugs for the headings of one document. The
// first heading with a given slug keeps it; each later one gets -1, -2, ...
// in document order.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns a Slugger with no headings recorded.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns the unique slug for text, or "" when the text has no
// sluggable characters. Empty slugs do not advance any counter.
func (s *Slugger) Slug(text string) string {
	slug := Slugify(text)
	if slug == "" {
		return ""
	}
	n, dup := s.seen[slug]
	if !dup {
		s.seen[slug] = 0
		return slug
	}
	n++
	s.seen[slug] = n
	return slug + "-" + strconv.Itoa(n)
}
