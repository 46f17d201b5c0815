package dispatch

import (
	"unicode/utf8"

	"github.com/starford/berkano/internal/garden"
	"github.com/starford/berkano/internal/search"
)

// Dispatcher owns the session state (mode, query, displayed list, cursor)
// and routes events through the registry. Constructing a dispatcher seals
// the registry: all modules must be registered beforehand.
type Dispatcher struct {
	registry *Registry
	repo     *garden.Repository
	index    *search.Index

	mode   Mode
	query  string
	list   []string
	cursor int

	// Snapshot taken on entering search mode, restored on esc.
	savedList   []string
	savedCursor int
}

// NewDispatcher creates a dispatcher over a sealed registry. The initial
// list is the publish-filtered chronological sequence.
func NewDispatcher(registry *Registry, repo *garden.Repository, index *search.Index) *Dispatcher {
	registry.seal()

	published := repo.Published()
	list := make([]string, len(published))
	for i, n := range published {
		list[i] = n.ID
	}

	return &Dispatcher{
		registry: registry,
		repo:     repo,
		index:    index,
		mode:     ModeNormal,
		list:     list,
	}
}

// Dispatch processes one key event and returns the effects to apply.
// An unbound key is literal query input in search mode and a no-op in
// normal mode.
func (d *Dispatcher) Dispatch(ev Event) []Effect {
	if h, ok := d.registry.Resolve(d.mode, ev.Key); ok {
		return h(d, ev)
	}
	if d.mode == ModeSearch && isLiteral(ev.Key) {
		return d.appendQuery(string(ev.Key))
	}
	return nil
}

// Mode returns the current mode.
func (d *Dispatcher) Mode() Mode { return d.mode }

// Query returns the in-progress search query.
func (d *Dispatcher) Query() string { return d.query }

// Cursor returns the selection index within the displayed list.
func (d *Dispatcher) Cursor() int { return d.cursor }

// List returns the ids of the currently displayed note sequence.
func (d *Dispatcher) List() []string { return d.list }

// Selected returns the note id under the cursor.
func (d *Dispatcher) Selected() (string, bool) {
	if len(d.list) == 0 {
		return "", false
	}
	return d.list[d.cursor], true
}

// isLiteral reports whether key is a single printable rune rather than a
// named token like "esc" or "tab".
func isLiteral(k Key) bool {
	return utf8.RuneCountInString(string(k)) == 1
}

func (d *Dispatcher) appendQuery(s string) []Effect {
	d.query += s
	return d.runQuery()
}

func (d *Dispatcher) eraseQuery() []Effect {
	if d.query == "" {
		return nil
	}
	_, size := utf8.DecodeLastRuneInString(d.query)
	d.query = d.query[:len(d.query)-size]
	return d.runQuery()
}

func (d *Dispatcher) runQuery() []Effect {
	d.list = search.IDs(d.index.Query(d.query))
	d.cursor = 0
	return []Effect{
		QueryChanged{Query: d.query},
		ListUpdated{IDs: d.list},
		CursorMoved{Index: d.cursor},
	}
}

func (d *Dispatcher) enterSearch() []Effect {
	d.savedList = d.list
	d.savedCursor = d.cursor
	d.mode = ModeSearch
	d.query = ""
	return []Effect{
		ModeChanged{Mode: ModeSearch},
		QueryChanged{Query: ""},
		SearchFocusRequested{},
	}
}

// cancelSearch discards the query and restores the pre-search list and
// cursor unchanged.
func (d *Dispatcher) cancelSearch() []Effect {
	d.mode = ModeNormal
	d.query = ""
	d.list = d.savedList
	d.cursor = d.savedCursor
	return []Effect{
		ModeChanged{Mode: ModeNormal},
		QueryChanged{Query: ""},
		ListUpdated{IDs: d.list},
		CursorMoved{Index: d.cursor},
	}
}

// commitSearch keeps the filtered list and returns to normal navigation.
func (d *Dispatcher) commitSearch() []Effect {
	d.mode = ModeNormal
	d.query = ""
	return []Effect{
		ModeChanged{Mode: ModeNormal},
		QueryChanged{Query: ""},
	}
}

// moveCursor shifts the selection by delta, clamped at the sequence bounds.
// No wraparound.
func (d *Dispatcher) moveCursor(delta int) []Effect {
	next := d.cursor + delta
	if next < 0 {
		next = 0
	}
	if max := len(d.list) - 1; next > max {
		next = max
	}
	if next < 0 {
		next = 0 // empty list
	}
	d.cursor = next
	return []Effect{CursorMoved{Index: d.cursor}}
}

func (d *Dispatcher) cursorTo(index int) []Effect {
	d.cursor = 0
	if index > 0 && index < len(d.list) {
		d.cursor = index
	} else if index >= len(d.list) && len(d.list) > 0 {
		d.cursor = len(d.list) - 1
	}
	return []Effect{CursorMoved{Index: d.cursor}}
}

func (d *Dispatcher) openSelected() []Effect {
	id, ok := d.Selected()
	if !ok {
		return nil
	}
	return []Effect{NoteOpened{ID: id}}
}
