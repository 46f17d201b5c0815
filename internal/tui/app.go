// Package tui implements the terminal garden browser: a note list with
// incremental search on the left, a Markdown preview on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/berkano/internal/dispatch"
	"github.com/starford/berkano/internal/garden"
)

const sidebarWidth = 36

// Model is the bubbletea model. All input semantics live in the
// dispatcher; the model translates key messages into dispatch events and
// renders the resulting state.
type Model struct {
	dispatcher *dispatch.Dispatcher
	repo       *garden.Repository

	viewport viewport.Model
	width    int
	height   int
	ready    bool

	openedID string
}

// NewModel creates the browser model over a prepared dispatcher.
func NewModel(dispatcher *dispatch.Dispatcher, repo *garden.Repository) Model {
	return Model{dispatcher: dispatcher, repo: repo}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		effects := m.dispatcher.Dispatch(dispatch.Event{Key: keyFor(msg)})
		return m.applyEffects(effects)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		previewWidth := m.width - sidebarWidth - 6
		if previewWidth < 20 {
			previewWidth = 20
		}
		m.viewport = viewport.New(previewWidth, m.height-4)
		m.refreshPreview()
	}
	return m, nil
}

// keyFor translates a bubbletea key message into a dispatch key. Named
// keys share their bubbletea spelling, so the string form maps directly.
func keyFor(msg tea.KeyMsg) dispatch.Key {
	return dispatch.Key(msg.String())
}

func (m Model) applyEffects(effects []dispatch.Effect) (tea.Model, tea.Cmd) {
	for _, e := range effects {
		switch e := e.(type) {
		case dispatch.QuitRequested:
			return m, tea.Quit
		case dispatch.NoteOpened:
			m.openedID = e.ID
			m.refreshPreview()
		case dispatch.ListUpdated, dispatch.CursorMoved:
			// State is read back from the dispatcher at render time.
		}
	}
	return m, nil
}

func (m *Model) refreshPreview() {
	if !m.ready {
		return
	}
	id := m.openedID
	if id == "" {
		if sel, ok := m.dispatcher.Selected(); ok {
			id = sel
		}
	}
	note, ok := m.repo.Get(id)
	if !ok {
		m.viewport.SetContent(helpStyle.Render("Nothing to preview."))
		return
	}

	var b strings.Builder
	b.WriteString(note.Title)
	b.WriteString("\n")
	if len(note.Tags) > 0 {
		b.WriteString(tagStyle.Render("#" + strings.Join(note.Tags, " #")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(note.Body)
	m.viewport.SetContent(b.String())
	m.viewport.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	sidebar := m.renderList()
	preview := previewStyle.Width(m.width - sidebarWidth - 6).Height(m.height - 4).Render(m.viewport.View())

	content := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, preview)
	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderStatusBar())
}

func (m Model) renderList() string {
	var b strings.Builder

	if m.dispatcher.Mode() == dispatch.ModeSearch {
		b.WriteString(searchStyle.Render("/" + m.dispatcher.Query()))
	} else {
		b.WriteString(listTitleStyle.Render("notes"))
	}
	b.WriteString("\n")

	list := m.dispatcher.List()
	cursor := m.dispatcher.Cursor()
	for i, id := range list {
		title := id
		if note, ok := m.repo.Get(id); ok {
			title = note.Title
		}
		title = truncate(title, sidebarWidth-4)
		if i == cursor {
			b.WriteString(itemSelectedStyle.Render(title))
		} else {
			b.WriteString(itemStyle.Render(title))
		}
		b.WriteString("\n")
	}
	if len(list) == 0 {
		b.WriteString(helpStyle.Render("no matches"))
	}

	return listStyle.Width(sidebarWidth).Height(m.height - 4).Render(b.String())
}

// truncate shortens s to at most max runes, ending in "..." when it had
// to cut. Slicing by rune keeps multibyte titles intact.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func (m Model) renderStatusBar() string {
	var left string
	switch m.dispatcher.Mode() {
	case dispatch.ModeSearch:
		left = fmt.Sprintf("search · %d matches", len(m.dispatcher.List()))
	default:
		left = fmt.Sprintf("%d notes", len(m.dispatcher.List()))
	}
	help := helpStyle.Render("j/k: move | /: search | enter: open | q: quit")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}
