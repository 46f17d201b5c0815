package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/starford/berkano/internal/apperr"
	"github.com/starford/berkano/internal/testutil"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_MixedCorpus(t *testing.T) {
	store := testutil.TestGarden(t, map[string]string{
		"good.md": testutil.NoteContent("Good", true, "2024-01-02T10:00", "plants"),
		"bad.md":  "---\ncreated: nope\n---\nbroken",
		"priv.md": testutil.NoteContent("Private", false, "2024-01-01T10:00"),
	})

	notes, diags, err := Load(context.Background(), store, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("notes = %d, want 2 (bad file skipped)", len(notes))
	}
	if len(diags) != 1 || diags[0].Path != "bad.md" {
		t.Fatalf("diags = %v, want one for bad.md", diags)
	}
}

func TestLoad_DeterministicOrder(t *testing.T) {
	store := testutil.TestGarden(t, map[string]string{
		"c.md": testutil.NoteContent("C", true, "2024-01-01T00:00"),
		"a.md": testutil.NoteContent("A", true, "2024-01-01T00:00"),
		"b.md": testutil.NoteContent("B", true, "2024-01-01T00:00"),
	})

	notes, _, err := Load(context.Background(), store, discard())
	if err != nil {
		t.Fatal(err)
	}
	if notes[0].ID != "a" || notes[1].ID != "b" || notes[2].ID != "c" {
		t.Errorf("batch order = [%s %s %s], want path order", notes[0].ID, notes[1].ID, notes[2].ID)
	}
}

func TestLoad_EmptyGarden(t *testing.T) {
	store := testutil.TestGarden(t, nil)
	notes, diags, err := Load(context.Background(), store, discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(notes) != 0 || len(diags) != 0 {
		t.Errorf("notes = %v, diags = %v", notes, diags)
	}
}

func TestLoad_CancelledContext(t *testing.T) {
	store := testutil.TestGarden(t, map[string]string{
		"a.md": testutil.NoteContent("A", true, "2024-01-01T00:00"),
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Load(ctx, store, discard())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBuildRepository_MergesDiagnostics(t *testing.T) {
	store := testutil.TestGarden(t, map[string]string{
		"bad.md":  "not a note",
		"good.md": testutil.NoteContent("Good", true, "2024-01-01T00:00"),
	})
	notes, diags, err := Load(context.Background(), store, discard())
	if err != nil {
		t.Fatal(err)
	}
	// Inject an id collision on top of the parse diagnostic.
	dup := notes[0]
	notes = append(notes, dup)

	repo, all := BuildRepository(notes, diags, discard())
	if repo.Len() != 1 {
		t.Errorf("repo len = %d, want 1", repo.Len())
	}
	if len(all) != 2 {
		t.Fatalf("diagnostics = %v, want parse + duplicate", all)
	}
	if !errors.Is(all[1].Err, apperr.ErrDuplicateNoteID) {
		t.Errorf("second diagnostic = %v", all[1].Err)
	}
}
