// Package garden owns the in-memory note corpus and its derived views.
package garden

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/starford/berkano/internal/frontmatter"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)
	mediaRe    = regexp.MustCompile(`!\[\[(media/[^|\]]+)(?:\|([^\[\]]+))?\]\]`)
)

// Note is one parsed file. Immutable after construction; destroyed at the
// end of the run together with the repository that owns it.
type Note struct {
	ID          string
	Title       string
	Description string
	Image       string
	Tags        []string
	Public      bool
	Created     time.Time
	Modified    time.Time
	Body        string
	Links       []string // wikilink targets, note-id space
	Media       []string // embedded media paths
}

// NoteID derives the stable identifier from a relative file path.
func NoteID(path string) string {
	return strings.TrimSuffix(filepath.ToSlash(path), ".md")
}

// NewNote builds a Note from a parsed document. path is the file path
// relative to the content root.
func NewNote(path string, doc *frontmatter.Document) Note {
	h := doc.Header
	return Note{
		ID:          NoteID(path),
		Title:       h.Title,
		Description: h.Description,
		Image:       h.Image,
		Tags:        h.Tags,
		Public:      h.Public,
		Created:     h.Created,
		Modified:    h.Modified,
		Body:        doc.Body,
		Links:       ExtractLinks(doc.Body),
		Media:       ExtractMedia(doc.Body),
	}
}

// ExtractLinks returns deduplicated wikilink targets from a note body,
// normalised to note-id form. Media embeds are not links.
func ExtractLinks(body string) []string {
	body = mediaRe.ReplaceAllString(body, "")

	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := NormalizeTarget(m[1])
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// ExtractMedia returns deduplicated media paths from ![[media/...]] embeds.
func ExtractMedia(body string) []string {
	matches := mediaRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		p := strings.TrimSpace(m[1])
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// NormalizeTarget maps a wikilink target to note-id form: fragment and
// query parts dropped, leading slash and .md extension stripped. The link
// graph and the site renderer resolve targets through this one helper so
// they can never disagree on what a wikilink points at.
func NormalizeTarget(raw string) string {
	t := strings.TrimSpace(raw)
	if i := strings.IndexAny(t, "#?"); i >= 0 {
		t = t[:i]
	}
	t = strings.TrimPrefix(t, "/")
	t = strings.TrimSuffix(t, ".md")
	return strings.TrimSpace(t)
}
