package site

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/berkano/internal/garden"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[([^\]|]+)(?:\|([^\]]*))?\]\]`)
	mediaRe    = regexp.MustCompile(`!\[\[(media/[^|\]]+)(?:\|([^\[\]]+))?\]\]`)
)

// PagePath is the output file for a note id.
func PagePath(id string) string {
	return id + ".html"
}

// PageURL is the root-relative href of a note page.
func PageURL(id string) string {
	return escapeURL(id) + ".html"
}

// relRoot returns the path prefix from a note's page back to the site
// root. Pages in subdirectories need it so hrefs resolve regardless of
// where the linking page lives.
func relRoot(id string) string {
	depth := strings.Count(id, "/")
	if depth == 0 {
		return "./"
	}
	return strings.Repeat("../", depth)
}

func escapeURL(s string) string {
	return strings.ReplaceAll(s, " ", "%20")
}

// renderBody converts a note body to HTML: anki-style "## Questions"
// sections are clipped, media embeds and wikilinks are rewritten to
// standard Markdown relative to the note's own page, then goldmark does
// the rest.
func (b *Builder) renderBody(id, body string) (string, error) {
	root := relRoot(id)
	body = clipQuestions(body)
	body = rewriteMedia(body, root)
	body = b.rewriteWikilinks(body, root)

	var buf bytes.Buffer
	if err := b.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("site: convert markdown: %w", err)
	}
	return buf.String(), nil
}

// clipQuestions drops everything from a "## Questions" heading onward.
// Those sections hold spaced-repetition prompts that never belong on a
// published page.
func clipQuestions(body string) string {
	lines := strings.SplitAfter(body, "\n")
	for i, line := range lines {
		if strings.TrimRight(line, "\r\n") == "## Questions" {
			return strings.Join(lines[:i], "")
		}
	}
	return body
}

// rewriteMedia turns ![[media/pic.png|caption]] embeds into standard
// Markdown images pointing at the copied media file.
func rewriteMedia(body, root string) string {
	return mediaRe.ReplaceAllStringFunc(body, func(m string) string {
		parts := mediaRe.FindStringSubmatch(m)
		link, title := parts[1], parts[2]
		return fmt.Sprintf("![%s](%s%s)", title, root, escapeURL(link))
	})
}

// rewriteWikilinks turns [[target|alias]] into Markdown links against the
// generated pages. Targets resolve through the same normalizer as the
// link graph; links to unknown or private notes degrade to plain text
// instead of a dead link.
func (b *Builder) rewriteWikilinks(body, root string) string {
	return wikilinkRe.ReplaceAllStringFunc(body, func(m string) string {
		parts := wikilinkRe.FindStringSubmatch(m)
		target, alias := parts[1], parts[2]

		id := garden.NormalizeTarget(target)

		label := alias
		if label == "" {
			label = strings.TrimSpace(target)
		}

		note, ok := b.repo.Get(id)
		if !ok || !note.Public {
			return label
		}
		return fmt.Sprintf("[%s](%s%s)", label, root, PageURL(id))
	})
}
