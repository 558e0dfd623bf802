package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"quill/internal/logging"
	"quill/internal/notes"
	"quill/internal/types"
)

const (
	minListWidth     = 24
	maxListWidth     = 40
	minViewportWidth = 20
	minContentHeight = 6
)

type uiMode int

const (
	uiModeList uiMode = iota
	uiModeSearch
	uiModeEdit
	uiModeConfirmDelete
)

type Model struct {
	store *notes.Store
	token string
	theme string
	log   logging.Logger

	mode      uiMode
	cursor    int
	tagCursor int
	width     int
	height    int
	status    string
	loading   bool
	loader    spinner.Model
	viewport  viewport.Model
	search    textinput.Model
	editor    *editorState

	visible    []*types.Note
	tags       []*types.Tag
	renderedID int
}

type notesFetchedMsg struct {
	err error
}

type mutationDoneMsg struct {
	action string
	err    error
}

type sessionExpiredMsg struct{}

func NewModel(store *notes.Store, token, theme string, log logging.Logger) Model {
	if log == nil {
		log = logging.Nop()
	}
	loader := spinner.New()
	loader.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search title, content, tags"
	search.CharLimit = 120

	vp := viewport.New(minViewportWidth, minContentHeight)
	vp.SetContent("No note selected.")

	return Model{
		store:      store,
		token:      token,
		theme:      theme,
		log:        log,
		tagCursor:  -1,
		loader:     loader,
		search:     search,
		viewport:   vp,
		renderedID: -1,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.loader.Tick)
}

func (m *Model) fetchCmd() tea.Cmd {
	m.loading = true
	store, token := m.store, m.token
	return func() tea.Msg {
		return notesFetchedMsg{err: store.FetchNotes(context.Background(), token)}
	}
}

func (m *Model) mutationCmd(action string, run func(ctx context.Context) error) tea.Cmd {
	m.loading = true
	return func() tea.Msg {
		return mutationDoneMsg{action: action, err: run(context.Background())}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.renderedID = -1
		m.syncRendered()
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case notesFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "fetch failed: " + m.store.LastError()
			return m, nil
		}
		m.syncFromStore()
		m.status = fmt.Sprintf("%d notes", len(m.visible))
		return m, nil
	case mutationDoneMsg:
		m.loading = false
		if msg.err != nil {
			m.status = msg.action + " failed: " + m.store.LastError()
			return m, nil
		}
		m.syncFromStore()
		m.status = msg.action + " ok"
		return m, nil
	case sessionExpiredMsg:
		m.store.Reset()
		m.syncFromStore()
		m.status = "session expired: run `quill login` and restart"
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.mode {
	case uiModeSearch:
		return m.handleSearchKey(msg)
	case uiModeEdit:
		return m.handleEditKey(msg)
	case uiModeConfirmDelete:
		return m.handleConfirmKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.moveCursor(1)
		return m, nil
	case "k", "up":
		m.moveCursor(-1)
		return m, nil
	case "g":
		m.setCursor(0)
		return m, nil
	case "G":
		m.setCursor(len(m.visible) - 1)
		return m, nil
	case "r":
		return m, m.fetchCmd()
	case "a":
		m.store.SetShowArchived(!m.store.ShowArchived())
		m.tagCursor = -1
		m.syncFromStore()
		return m, m.fetchCmd()
	case "tab":
		m.cycleTag(1)
		return m, nil
	case "shift+tab":
		m.cycleTag(-1)
		return m, nil
	case "/":
		m.mode = uiModeSearch
		m.search.SetValue(m.store.SearchQuery())
		m.search.Focus()
		return m, textinput.Blink
	case "esc":
		m.store.SetSearchQuery("")
		m.store.SelectTag(nil)
		m.tagCursor = -1
		m.syncFromStore()
		m.status = "filters cleared"
		return m, nil
	case "n":
		m.openEditor(nil)
		return m, nil
	case "e", "enter":
		if note := m.selected(); note != nil {
			m.openEditor(note)
		}
		return m, nil
	case "d":
		if m.selected() != nil {
			m.mode = uiModeConfirmDelete
		}
		return m, nil
	case "x":
		return m, m.toggleArchiveCmd()
	case "t":
		if note := m.selected(); note != nil {
			m.openEditor(note)
			m.editor.focusTags()
		}
		return m, nil
	case "y":
		if note := m.selected(); note != nil {
			m.copyWithStatus(note.Content, "copied note content")
		}
		return m, nil
	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil
	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil
	}
	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = uiModeList
		m.search.Blur()
		m.store.SetSearchQuery(m.search.Value())
		m.syncFromStore()
		return m, nil
	case tea.KeyEsc:
		m.mode = uiModeList
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.mode = uiModeList
		note := m.selected()
		if note == nil {
			return m, nil
		}
		store, token, id := m.store, m.token, note.ID
		return m, m.mutationCmd("delete", func(ctx context.Context) error {
			return store.DeleteNote(ctx, token, id)
		})
	case "n", "esc", "q":
		m.mode = uiModeList
		m.status = ""
		return m, nil
	}
	return m, nil
}

func (m *Model) toggleArchiveCmd() tea.Cmd {
	note := m.selected()
	if note == nil {
		return nil
	}
	store, token, id := m.store, m.token, note.ID
	if note.IsArchived {
		return m.mutationCmd("restore", func(ctx context.Context) error {
			_, err := store.UnarchiveNote(ctx, token, id)
			return err
		})
	}
	return m.mutationCmd("archive", func(ctx context.Context) error {
		_, err := store.ArchiveNote(ctx, token, id)
		return err
	})
}

// syncFromStore pulls the filtered view and tag index back out of the store
// and keeps the cursor on the selected note when it survived the change.
func (m *Model) syncFromStore() {
	m.visible = m.store.Notes()
	m.tags = m.store.AllTags()
	m.loading = m.store.Loading()

	if m.tagCursor >= len(m.tags) {
		m.tagCursor = -1
	}
	selected := m.store.SelectedNote()
	if selected != nil {
		for i, note := range m.visible {
			if note.ID == selected.ID {
				m.cursor = i
				m.syncRendered()
				return
			}
		}
	}
	m.setCursor(m.cursor)
}

func (m *Model) moveCursor(delta int) {
	m.setCursor(m.cursor + delta)
}

func (m *Model) setCursor(index int) {
	if len(m.visible) == 0 {
		m.cursor = 0
		m.store.SelectNote(nil)
		m.syncRendered()
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(m.visible) {
		index = len(m.visible) - 1
	}
	m.cursor = index
	m.store.SelectNote(m.visible[index])
	m.syncRendered()
}

func (m *Model) cycleTag(delta int) {
	if len(m.tags) == 0 {
		return
	}
	next := m.tagCursor + delta
	if next >= len(m.tags) {
		next = -1
	}
	if next < -1 {
		next = len(m.tags) - 1
	}
	m.tagCursor = next
	if next == -1 {
		m.store.SelectTag(nil)
	} else {
		m.store.SelectTag(m.tags[next])
	}
	m.syncFromStore()
}

func (m *Model) selected() *types.Note {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor]
}
