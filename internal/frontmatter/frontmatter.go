// Package frontmatter separates a leading YAML front matter block from a
// Markdown document so it is never tokenized as body content.
package frontmatter

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split is the result of separating front matter from a document.
type Split struct {
	// Frontmatter is the raw YAML between the delimiters (may be empty).
	Frontmatter []byte
	// Body is everything after the closing delimiter, or the full input.
	Body []byte
	// Had reports whether a front matter block was present.
	Had bool
	// Newline is the newline sequence detected in the document.
	Newline string
}

// LineOffset is the number of source lines that precede Body.
func (s Split) LineOffset() int {
	if !s.Had {
		return 0
	}
	// Opening delimiter, the raw block, and the closing delimiter.
	return 2 + bytes.Count(s.Frontmatter, []byte("\n"))
}

// Parse separates `---` delimited YAML front matter from the Markdown body.
func Parse(content []byte) (Split, error) {
	nl := detectNewline(content)
	out := Split{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return out, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		out.Frontmatter = []byte{}
		out.Body = content[start+len(open):]
		out.Had = true
		return out, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the very last line has no trailing newline.
		if bytes.HasSuffix(content, []byte(nl+"---")) {
			end := len(content) - len(nl) - 3
			out.Frontmatter = content[start : end+len(nl)]
			out.Body = []byte{}
			out.Had = true
			return out, nil
		}
		return out, ErrMissingClosingDelimiter
	}

	out.Frontmatter = content[start : start+idx+len(nl)]
	out.Body = content[start+idx+len(closeSeq):]
	out.Had = true
	return out, nil
}

// Strip returns the Markdown body and the line offset of its first line.
// An unterminated front matter block is treated as ordinary body text.
func Strip(content []byte) ([]byte, int) {
	split, err := Parse(content)
	if err != nil {
		return content, 0
	}
	return split.Body, split.LineOffset()
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
