// Package mcpserver exposes the note garden to LLM clients over the
// Model Context Protocol via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/search"
)

// Server wraps the MCP server with garden tools. It serves a read-only
// snapshot of the repository taken at startup.
type Server struct {
	mcp   *server.MCPServer
	repo  *garden.Repository
	index *search.Index
}

// New creates an MCP server with all garden tools registered.
func New(repo *garden.Repository, index *search.Index) *Server {
	s := &Server{repo: repo, index: index}

	s.mcp = server.NewMCPServer(
		"Berkano",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Search published notes by tag, title, and body text."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full Markdown body of a note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id (relative path without .md, e.g. plants/ferns)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List notes newest first, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("List every tag used in the garden."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all notes that link to the given note."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id to find backlinks for")),
	), s.getBacklinks)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

type searchHit struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Weight int    `json:"weight"`
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hits []searchHit
	for _, m := range s.index.Query(query) {
		hit := searchHit{ID: m.ID, Weight: m.Weight}
		if note, ok := s.repo.Get(m.ID); ok {
			hit.Title = note.Title
		}
		hits = append(hits, hit)
	}
	if len(hits) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, ok := s.repo.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("# %s\n\n%s", note.Title, note.Body)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var notes []garden.Note
	if tag, err := req.RequireString("tag"); err == nil && tag != "" {
		notes = s.repo.ByTag(tag)
	} else {
		notes = s.repo.Chronological()
	}

	if len(notes) == 0 {
		return mcp.NewToolResultText("no notes"), nil
	}
	var b strings.Builder
	for _, n := range notes {
		fmt.Fprintf(&b, "%s\t%s\n", n.ID, n.Title)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) listTags(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags := s.repo.Tags()
	if len(tags) == 0 {
		return mcp.NewToolResultText("no tags"), nil
	}
	return mcp.NewToolResultText(strings.Join(tags, "\n")), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	bl := s.repo.Backlinks(id)
	if len(bl) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return mcp.NewToolResultText(strings.Join(bl, "\n")), nil
}
