// Package testutil provides shared test helpers for building garden
// fixtures on disk.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/berkano/internal/storage"
)

// TestGarden writes the given files (path → content) into a temporary
// content directory and returns a storage provider rooted there.
func TestGarden(t *testing.T, files map[string]string) *storage.FS {
	t.Helper()
	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// NoteContent renders a minimal valid note with the given title, publish
// flag, and created/modified timestamp (layout 2006-01-02T15:04).
func NoteContent(title string, public bool, created string, tags ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "---\ntitle: %s\n", title)
	if len(tags) > 0 {
		b.WriteString("tags:\n")
		for _, tag := range tags {
			fmt.Fprintf(&b, "  - %s\n", tag)
		}
	}
	fmt.Fprintf(&b, "public: %t\ncreated: %s\nmodified: %s\n---\n# %s\n", public, created, created, title)
	return b.String()
}
