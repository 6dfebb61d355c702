// Package linkcheck resolves the links of a tree of Markdown documents and
// assembles the findings into a report.
package linkcheck

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind classifies how a link was resolved.
type Kind int

const (
	// KindAnchor is a fragment-only link, or an internal link whose
	// anchor is missing.
	KindAnchor Kind = iota + 1
	// KindExternal is an http or https URL.
	KindExternal
	// KindEmail is a mailto: link.
	KindEmail
	// KindInternal is a link to a file below the site.
	KindInternal
	// KindError is a link whose resolution failed on I/O.
	KindError
)

var kindNames = map[Kind]string{
	KindAnchor:   "anchor",
	KindExternal: "external",
	KindEmail:    "email",
	KindInternal: "internal",
	KindError:    "error",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the lowercase kind name used in reports.
func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown link kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText parses a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown link kind %q", text)
}

// Outcome is the result of resolving one link. Valid=false marks a broken
// link. An external link with ExternalOK=false is still valid and only
// produces a warning.
type Outcome struct {
	Kind       Kind
	Valid      bool
	Reason     string
	ExternalOK *bool
}

// Warning reports whether the outcome is a best-effort external failure.
func (o Outcome) Warning() bool {
	return o.Valid && o.Kind == KindExternal && o.ExternalOK != nil && !*o.ExternalOK
}

// Report is the aggregate result of one scan.
type Report struct {
	Summary          Summary         `json:"summary"`
	BrokenLinks      []Entry         `json:"brokenLinks"`
	ExternalWarnings []Entry         `json:"externalWarnings"`
	FileReadErrors   []FileReadError `json:"fileReadErrors"`
	FileDetails      FileDetails     `json:"fileDetails"`
}

// Summary holds the report counters.
type Summary struct {
	TotalFiles       int  `json:"totalFiles"`
	TotalLinks       int  `json:"totalLinks"`
	BrokenLinks      int  `json:"brokenLinks"`
	ExternalWarnings int  `json:"externalWarnings"`
	FileReadErrors   int  `json:"fileReadErrors"`
	Success          bool `json:"success"`
}

// Entry locates a broken link or an external warning.
type Entry struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	URL    string `json:"url"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// FileReadError records a document that could not be read.
type FileReadError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// Detail is one link of a document together with its outcome.
type Detail struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Text       string `json:"text"`
	URL        string `json:"url"`
	Valid      bool   `json:"valid"`
	Type       Kind   `json:"type"`
	Reason     string `json:"reason,omitempty"`
	ExternalOK *bool  `json:"externalOk,omitempty"`
}

// FileDetail groups the details of one document.
type FileDetail struct {
	File  string
	Links []Detail
}

// FileDetails is keyed by scan-root-relative path and keeps discovery
// order when encoded as a JSON object.
type FileDetails []FileDetail

// Get returns the details recorded for file.
func (fd FileDetails) Get(file string) ([]Detail, bool) {
	for _, d := range fd {
		if d.File == file {
			return d.Links, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the details as an object in discovery order.
func (fd FileDetails) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range fd {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalUnescaped(d.File)
		if err != nil {
			return nil, err
		}
		links := d.Links
		if links == nil {
			links = []Detail{}
		}
		val, err := marshalUnescaped(links)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalUnescaped encodes v without HTML escaping so link text such as
// `<tag>` reads the same inside and outside fileDetails.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes an object of details, preserving key order.
func (fd *FileDetails) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("fileDetails: expected object")
	}
	out := FileDetails{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		file, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fileDetails: expected string key")
		}
		var links []Detail
		if err := dec.Decode(&links); err != nil {
			return err
		}
		out = append(out, FileDetail{File: file, Links: links})
	}
	*fd = out
	return nil
}
