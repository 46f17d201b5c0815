// Package dispatch routes key events to independently registered
// interactive modules and tracks the session's mode state machine.
//
// The dispatcher never draws anything: each event produces a sequence of
// declarative UI effects that a presentation surface applies. Dispatch is
// single-threaded; one event is fully processed before the next.
package dispatch

// Mode is the current interaction context governing which bindings fire.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Key is a single-character or named key token ("j", "/", "esc", ...).
type Key string

// Named key tokens.
const (
	KeyEsc       Key = "esc"
	KeyEnter     Key = "enter"
	KeyBackspace Key = "backspace"
)

// Event is one key press, delivered in the order pressed.
type Event struct {
	Key Key
}

// Effect is a declarative UI instruction for the rendering collaborator.
type Effect interface{ effect() }

// ModeChanged reports a mode transition.
type ModeChanged struct{ Mode Mode }

// QueryChanged carries the full current query text.
type QueryChanged struct{ Query string }

// ListUpdated replaces the displayed note sequence.
type ListUpdated struct{ IDs []string }

// CursorMoved positions the selection cursor within the displayed list.
type CursorMoved struct{ Index int }

// SearchFocusRequested asks the surface to focus its search input.
type SearchFocusRequested struct{}

// NoteOpened asks the surface to show the note with the given id.
type NoteOpened struct{ ID string }

// QuitRequested asks the surface to end the session.
type QuitRequested struct{}

func (ModeChanged) effect()          {}
func (QueryChanged) effect()         {}
func (ListUpdated) effect()          {}
func (CursorMoved) effect()          {}
func (SearchFocusRequested) effect() {}
func (NoteOpened) effect()           {}
func (QuitRequested) effect()        {}

// Handler computes the effects of one event. Handlers run on the dispatch
// goroutine and may read and mutate the dispatcher's session state.
type Handler func(d *Dispatcher, ev Event) []Effect

// Binding is a key pattern scoped to an activation mode.
type Binding struct {
	Mode Mode
	Key  Key
}

// Module is a named unit owning a set of key bindings.
type Module struct {
	Name     string
	Bindings map[Binding]Handler
}
