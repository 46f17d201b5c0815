package dispatch

import (
	"reflect"
	"testing"
	"time"

	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/search"
)

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	day := func(d int) time.Time {
		return time.Date(2024, 4, d, 0, 0, 0, 0, time.UTC)
	}
	notes := []garden.Note{
		{ID: "alpha", Title: "Alpha", Body: "first note", Tags: []string{"greek"}, Public: true, Created: day(3), Modified: day(3)},
		{ID: "beta", Title: "Beta", Body: "second note", Tags: []string{"greek"}, Public: true, Created: day(2), Modified: day(2)},
		{ID: "gamma", Title: "Gamma", Body: "third note", Public: true, Created: day(1), Modified: day(1)},
		{ID: "secret", Title: "Secret", Body: "hidden", Created: day(4), Modified: day(4)},
	}
	repo, diags := garden.NewRepository(notes)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	ix := search.Build(repo.Published())

	reg, err := NewRegistry(SearchModule(), NavigationModule())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return NewDispatcher(reg, repo, ix)
}

func press(d *Dispatcher, keys ...Key) []Effect {
	var last []Effect
	for _, k := range keys {
		last = d.Dispatch(Event{Key: k})
	}
	return last
}

func hasEffect[E Effect](effects []Effect) (E, bool) {
	for _, e := range effects {
		if typed, ok := e.(E); ok {
			return typed, true
		}
	}
	var zero E
	return zero, false
}

func TestInitialState(t *testing.T) {
	d := testDispatcher(t)
	if d.Mode() != ModeNormal {
		t.Errorf("initial mode = %v", d.Mode())
	}
	if !reflect.DeepEqual(d.List(), []string{"alpha", "beta", "gamma"}) {
		t.Errorf("initial list = %v (private notes must be excluded)", d.List())
	}
	if d.Cursor() != 0 {
		t.Errorf("initial cursor = %d", d.Cursor())
	}
}

func TestSearchRoundTrip(t *testing.T) {
	d := testDispatcher(t)
	press(d, "j") // cursor at 1 so we can check it is restored

	effects := press(d, "/")
	if d.Mode() != ModeSearch {
		t.Fatalf("mode after / = %v", d.Mode())
	}
	if q, ok := hasEffect[QueryChanged](effects); !ok || q.Query != "" {
		t.Errorf("entering search should emit an empty QueryChanged, got %v", effects)
	}
	if _, ok := hasEffect[SearchFocusRequested](effects); !ok {
		t.Errorf("entering search should request focus, got %v", effects)
	}

	effects = press(d, "a")
	if d.Query() != "a" {
		t.Errorf("query = %q, want %q", d.Query(), "a")
	}
	if list, ok := hasEffect[ListUpdated](effects); !ok {
		t.Errorf("literal input should trigger a search, got %v", effects)
	} else if !reflect.DeepEqual(list.IDs, []string{"alpha", "beta", "gamma"}) {
		// "a" matches Alpha and Beta and Gamma by title substring.
		t.Errorf("list = %v", list.IDs)
	}

	effects = press(d, KeyEsc)
	if d.Mode() != ModeNormal {
		t.Errorf("mode after esc = %v", d.Mode())
	}
	if d.Query() != "" {
		t.Errorf("query should be discarded, got %q", d.Query())
	}
	if list, _ := hasEffect[ListUpdated](effects); !reflect.DeepEqual(list.IDs, []string{"alpha", "beta", "gamma"}) {
		t.Errorf("esc should restore the pre-search list, got %v", list.IDs)
	}
	if cur, _ := hasEffect[CursorMoved](effects); cur.Index != 1 {
		t.Errorf("esc should restore the pre-search cursor, got %d", cur.Index)
	}
}

func TestSearchQueryAccumulates(t *testing.T) {
	d := testDispatcher(t)
	press(d, "/", "g", "r", "e", "e", "k")
	if d.Query() != "greek" {
		t.Fatalf("query = %q", d.Query())
	}
	// Exact tag match: alpha and beta, newest first.
	if !reflect.DeepEqual(d.List(), []string{"alpha", "beta"}) {
		t.Errorf("list = %v", d.List())
	}
}

func TestSearchBackspace(t *testing.T) {
	d := testDispatcher(t)
	press(d, "/", "g", "r")
	press(d, KeyBackspace)
	if d.Query() != "g" {
		t.Errorf("query = %q, want %q", d.Query(), "g")
	}
	// Erasing to empty yields the empty match set, not all notes.
	press(d, KeyBackspace)
	if d.Query() != "" {
		t.Errorf("query = %q", d.Query())
	}
	if len(d.List()) != 0 {
		t.Errorf("empty query should list nothing, got %v", d.List())
	}
	// Backspace on an empty query is a no-op.
	if effects := press(d, KeyBackspace); effects != nil {
		t.Errorf("expected no effects, got %v", effects)
	}
}

func TestSearchCommitKeepsList(t *testing.T) {
	d := testDispatcher(t)
	press(d, "/", "g", "r", "e", "e", "k")
	press(d, KeyEnter)
	if d.Mode() != ModeNormal {
		t.Errorf("mode = %v", d.Mode())
	}
	if !reflect.DeepEqual(d.List(), []string{"alpha", "beta"}) {
		t.Errorf("commit should keep the filtered list, got %v", d.List())
	}
}

func TestNamedKeysAreNotQueryText(t *testing.T) {
	d := testDispatcher(t)
	press(d, "/")
	press(d, "tab") // unbound named key in search mode
	if d.Query() != "" {
		t.Errorf("named keys must not append to the query, got %q", d.Query())
	}
}

func TestCursorClamping(t *testing.T) {
	d := testDispatcher(t)

	// k at index 0 stays at 0.
	effects := press(d, "k")
	if cur, ok := hasEffect[CursorMoved](effects); !ok || cur.Index != 0 {
		t.Errorf("k at top: effects = %v, want cursor 0", effects)
	}

	// j past the end clamps at the last index.
	press(d, "j", "j", "j", "j", "j")
	if d.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2 (clamped)", d.Cursor())
	}

	press(d, "g")
	if d.Cursor() != 0 {
		t.Errorf("g should jump to top, cursor = %d", d.Cursor())
	}
	press(d, "G")
	if d.Cursor() != 2 {
		t.Errorf("G should jump to bottom, cursor = %d", d.Cursor())
	}
}

func TestUnboundKeyInNormalModeIsNoOp(t *testing.T) {
	d := testDispatcher(t)
	if effects := press(d, "x"); effects != nil {
		t.Errorf("effects = %v, want none", effects)
	}
	if d.Mode() != ModeNormal || d.Cursor() != 0 {
		t.Error("state must not change on unbound keys")
	}
}

func TestOpenSelected(t *testing.T) {
	d := testDispatcher(t)
	press(d, "j")
	effects := press(d, KeyEnter)
	if opened, ok := hasEffect[NoteOpened](effects); !ok || opened.ID != "beta" {
		t.Errorf("effects = %v, want NoteOpened{beta}", effects)
	}
}

func TestOpenOnEmptyList(t *testing.T) {
	d := testDispatcher(t)
	press(d, "/", "z", "z", "z") // no matches
	press(d, KeyEnter)           // commit empty list
	if effects := press(d, KeyEnter); effects != nil {
		t.Errorf("open on empty list should do nothing, got %v", effects)
	}
}

func TestQuit(t *testing.T) {
	d := testDispatcher(t)
	effects := press(d, "q")
	if _, ok := hasEffect[QuitRequested](effects); !ok {
		t.Errorf("effects = %v, want QuitRequested", effects)
	}
}
