// Package site renders the note graph into a static website: one page per
// published note, an index page, a content map for client-side search,
// and copied static and media assets.
package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/storage"
)

//go:embed templates/*.html
var defaultTemplates embed.FS

// Builder turns a repository snapshot into files under the output root.
// It consumes the publish-filtered views only; private notes never reach
// the output directory.
type Builder struct {
	repo    *garden.Repository
	content *storage.FS
	out     *storage.FS
	static  string // optional static asset dir
	tmpl    *template.Template
	md      goldmark.Markdown
	logger  *slog.Logger
}

// NewBuilder creates a builder. templateDir overrides the embedded default
// templates when non-empty; staticDir may be empty.
func NewBuilder(repo *garden.Repository, content, out *storage.FS, templateDir, staticDir string, logger *slog.Logger) (*Builder, error) {
	var (
		tmpl *template.Template
		err  error
	)
	if templateDir != "" {
		tmpl, err = template.ParseGlob(filepath.Join(templateDir, "*.html"))
	} else {
		tmpl, err = template.ParseFS(defaultTemplates, "templates/*.html")
	}
	if err != nil {
		return nil, fmt.Errorf("site: parse templates: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)

	return &Builder{
		repo:    repo,
		content: content,
		out:     out,
		static:  staticDir,
		tmpl:    tmpl,
		md:      md,
		logger:  logger,
	}, nil
}

// Build writes the whole site. Individual page failures are logged and do
// not stop the remaining pages.
func (b *Builder) Build() error {
	if err := b.renderNotes(); err != nil {
		return err
	}
	if err := b.renderIndex(); err != nil {
		return err
	}
	if err := b.writeContentMap(); err != nil {
		return err
	}
	if err := b.copyStatic(); err != nil {
		return err
	}
	b.copyMedia()
	return nil
}

type noteRef struct {
	Title string
	URL   string
}

// tagNodeView is a TagNode resolved for one page: note ids become titled
// links with hrefs relative to that page.
type tagNodeView struct {
	Tag      string
	Notes    []noteRef
	Children []tagNodeView
}

type notePage struct {
	Note      garden.Note
	Content   template.HTML
	URL       string
	Root      string // path prefix back to the site root
	Backlinks []noteRef
	Tags      []string
	TagTree   []tagNodeView
}

type indexPage struct {
	Notes   []noteRef
	TagTree []tagNodeView
}

func (b *Builder) tagTreeView(nodes []*garden.TagNode, root string) []tagNodeView {
	var out []tagNodeView
	for _, node := range nodes {
		v := tagNodeView{Tag: node.Tag}
		for _, id := range node.Files {
			note, ok := b.repo.Get(id)
			if !ok {
				continue
			}
			v.Notes = append(v.Notes, noteRef{Title: note.Title, URL: root + PageURL(id)})
		}
		v.Children = b.tagTreeView(node.Children, root)
		out = append(out, v)
	}
	return out
}

func (b *Builder) renderNotes() error {
	tree := garden.NewTagTree(b.repo.Published())
	for _, n := range b.repo.Published() {
		html, err := b.renderBody(n.ID, n.Body)
		if err != nil {
			b.logger.Error("site: render failed", slog.String("id", n.ID), slog.String("error", err.Error()))
			continue
		}

		root := relRoot(n.ID)
		var backlinks []noteRef
		for _, src := range b.repo.Backlinks(n.ID) {
			source, ok := b.repo.Get(src)
			if !ok || !source.Public {
				continue
			}
			backlinks = append(backlinks, noteRef{Title: source.Title, URL: root + PageURL(src)})
		}

		var buf bytes.Buffer
		err = b.tmpl.ExecuteTemplate(&buf, "base.html", notePage{
			Note:      n,
			Content:   template.HTML(html),
			URL:       PageURL(n.ID),
			Root:      root,
			Backlinks: backlinks,
			Tags:      n.Tags,
			TagTree:   b.tagTreeView(tree.Children, root),
		})
		if err != nil {
			b.logger.Error("site: template failed", slog.String("id", n.ID), slog.String("error", err.Error()))
			continue
		}
		if err := b.out.Write(PagePath(n.ID), buf.Bytes()); err != nil {
			return err
		}
		b.logger.Debug("site: rendered", slog.String("id", n.ID))
	}
	return nil
}

func (b *Builder) renderIndex() error {
	var refs []noteRef
	for _, n := range b.repo.Published() {
		refs = append(refs, noteRef{Title: n.Title, URL: "./" + PageURL(n.ID)})
	}
	tree := garden.NewTagTree(b.repo.Published())
	var buf bytes.Buffer
	page := indexPage{Notes: refs, TagTree: b.tagTreeView(tree.Children, "./")}
	if err := b.tmpl.ExecuteTemplate(&buf, "index.html", page); err != nil {
		return fmt.Errorf("site: render index: %w", err)
	}
	return b.out.Write("index.html", buf.Bytes())
}

// writeContentMap emits map.json: page url → searchable properties,
// consumed by the client-side search on the generated site.
func (b *Builder) writeContentMap() error {
	type searchProps struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
	}
	m := make(map[string]searchProps)
	for _, n := range b.repo.Published() {
		m[PageURL(n.ID)] = searchProps{
			Title:       n.Title,
			Description: n.Description,
			Tags:        n.Tags,
		}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("site: marshal content map: %w", err)
	}
	return b.out.Write("map.json", data)
}

func (b *Builder) copyStatic() error {
	if b.static == "" {
		return nil
	}
	if _, err := os.Stat(b.static); os.IsNotExist(err) {
		b.logger.Warn("site: static dir missing", slog.String("path", b.static))
		return nil
	}
	return storage.CopyDir(b.static, b.out.Root())
}

// copyMedia copies every media file referenced by a published note.
// Missing media is a warning, not a build failure.
func (b *Builder) copyMedia() {
	seen := make(map[string]struct{})
	for _, n := range b.repo.Published() {
		for _, media := range n.Media {
			if _, done := seen[media]; done {
				continue
			}
			seen[media] = struct{}{}
			src := filepath.Join(b.content.Root(), filepath.FromSlash(media))
			if err := b.out.CopyFrom(src, media); err != nil {
				b.logger.Warn("site: media copy failed",
					slog.String("media", media),
					slog.String("error", err.Error()))
			}
		}
	}
}
