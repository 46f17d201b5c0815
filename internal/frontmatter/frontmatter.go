// Package frontmatter parses the YAML metadata header of a note file.
//
// Parsing is a pure function over file content: no I/O happens here, so
// callers are free to invoke it concurrently across files.
package frontmatter

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// TimeLayout is the only accepted format for created/modified timestamps.
const TimeLayout = "2006-01-02T15:04"

const delimiter = "---"

// Header holds the recognized front-matter fields of a note.
type Header struct {
	Title       string
	Description string
	Image       string
	Tags        []string // deduplicated, lowercased, sorted
	Public      bool
	Created     time.Time
	Modified    time.Time
}

// Document is a parsed note file: structured header plus the raw body.
// The body is everything after the closing delimiter line, byte-for-byte.
type Document struct {
	Header Header
	Body   string
}

// Error is a per-file parse or validation failure. It identifies the file
// so diagnostics can be surfaced without losing the remaining files.
type Error struct {
	File   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("frontmatter: %s: %s", e.File, e.Reason)
}

// rawHeader is the YAML decode target. Timestamps stay strings so that a
// malformed value is a diagnosable error rather than a zero time.
// Unknown fields are ignored for forward compatibility.
type rawHeader struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image"`
	Tags        []string `yaml:"tags"`
	Public      bool     `yaml:"public"`
	Created     string   `yaml:"created"`
	Modified    string   `yaml:"modified"`
}

func (h *rawHeader) validate() error {
	return validation.ValidateStruct(h,
		validation.Field(&h.Title, validation.Required),
		validation.Field(&h.Created, validation.Required),
		validation.Field(&h.Modified, validation.Required),
	)
}

// Parse splits data into a front-matter header and body. name is used only
// for diagnostics. The header must open the file with a "---" line and end
// with a "---" line; anything else is an *Error.
func Parse(name string, data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte(delimiter)) {
		return nil, &Error{File: name, Reason: "missing front matter opening delimiter"}
	}

	rest := data[len(delimiter):]
	idx := bytes.Index(rest, []byte("\n"+delimiter))
	if idx < 0 {
		return nil, &Error{File: name, Reason: "missing front matter closing delimiter"}
	}

	yamlBlock := rest[:idx]
	after := rest[idx+1+len(delimiter):]
	// Drop the closing delimiter's own line ending; everything beyond it is
	// body and is preserved exactly.
	switch {
	case bytes.HasPrefix(after, []byte("\r\n")):
		after = after[2:]
	case bytes.HasPrefix(after, []byte("\n")):
		after = after[1:]
	}

	var raw rawHeader
	if err := yaml.Unmarshal(yamlBlock, &raw); err != nil {
		return nil, &Error{File: name, Reason: fmt.Sprintf("invalid header: %v", err)}
	}
	if err := raw.validate(); err != nil {
		return nil, &Error{File: name, Reason: err.Error()}
	}

	created, err := parseTime(raw.Created)
	if err != nil {
		return nil, &Error{File: name, Reason: fmt.Sprintf("invalid created timestamp %q (want %s)", raw.Created, TimeLayout)}
	}
	modified, err := parseTime(raw.Modified)
	if err != nil {
		return nil, &Error{File: name, Reason: fmt.Sprintf("invalid modified timestamp %q (want %s)", raw.Modified, TimeLayout)}
	}
	if modified.Before(created) {
		return nil, &Error{File: name, Reason: fmt.Sprintf("modified %s precedes created %s",
			modified.Format(TimeLayout), created.Format(TimeLayout))}
	}

	return &Document{
		Header: Header{
			Title:       strings.TrimSpace(raw.Title),
			Description: strings.TrimSpace(raw.Description),
			Image:       strings.TrimSpace(raw.Image),
			Tags:        normalizeTags(raw.Tags),
			Public:      raw.Public,
			Created:     created,
			Modified:    modified,
		},
		Body: string(after),
	}, nil
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(TimeLayout, strings.TrimSpace(value))
}

// normalizeTags collapses the ordered tag list into a sorted set.
// Duplicates collapse silently.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
