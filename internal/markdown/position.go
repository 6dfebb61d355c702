package markdown

import (
	"sort"
	"unicode/utf8"

	gmast "github.com/yuin/goldmark/ast"
)

// lineIndex holds the byte offset at which each line starts.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	idx := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (l lineIndex) position(src []byte, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	// Index of the last line start <= offset.
	i := sort.Search(len(l), func(i int) bool { return l[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, utf8.RuneCount(src[l[i]:offset]) + 1
}

// blockStart returns the offset of the first line of the nearest enclosing
// block that carries source lines.
func blockStart(n gmast.Node) int {
	for p := n; p != nil; p = p.Parent() {
		if p.Type() != gmast.TypeBlock {
			continue
		}
		if lines := p.Lines(); lines != nil && lines.Len() > 0 {
			return lines.At(0).Start
		}
	}
	return 0
}

// firstTextOffset returns the source offset of the first text segment below n.
func firstTextOffset(n gmast.Node) (int, bool) {
	offset, found := 0, false
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if t, ok := c.(*gmast.Text); ok {
			offset, found = t.Segment.Start, true
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return offset, found
}

// openingBracket scans back from a text offset on the same line to the `[`
// that opens the reference; for images the preceding `!` is the start.
func openingBracket(src []byte, offset int, image bool) int {
	for i := offset - 1; i >= 0 && src[i] != '\n'; i-- {
		if src[i] != '[' {
			continue
		}
		bang := i > 0 && src[i-1] == '!'
		if image {
			if bang {
				return i - 1
			}
			continue
		}
		if !bang {
			return i
		}
	}
	return offset
}
