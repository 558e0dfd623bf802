package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"quill/internal/notes"
	"quill/internal/types"
)

const (
	editorFocusTitle = iota
	editorFocusContent
	editorFocusTags
)

// editorState is the form shown while composing or editing a note. The
// note id is zero for a new note.
type editorState struct {
	noteID  int
	title   textinput.Model
	content textarea.Model
	tags    textinput.Model
	focus   int
}

func newEditorState(note *types.Note) *editorState {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "write markdown here"

	tags := textinput.New()
	tags.Placeholder = "tags, comma separated"
	tags.CharLimit = 200

	state := &editorState{title: title, content: content, tags: tags}
	if note != nil {
		state.noteID = note.ID
		state.title.SetValue(note.Title)
		state.content.SetValue(note.Content)
		names := make([]string, 0, len(note.Tags))
		for _, tag := range note.Tags {
			if tag != nil {
				names = append(names, tag.Name)
			}
		}
		state.tags.SetValue(strings.Join(names, ", "))
	}
	state.applyFocus()
	return state
}

func (e *editorState) focusTags() {
	e.focus = editorFocusTags
	e.applyFocus()
}

func (e *editorState) cycleFocus(delta int) {
	e.focus = (e.focus + delta + 3) % 3
	e.applyFocus()
}

func (e *editorState) applyFocus() {
	e.title.Blur()
	e.content.Blur()
	e.tags.Blur()
	switch e.focus {
	case editorFocusTitle:
		e.title.Focus()
	case editorFocusContent:
		e.content.Focus()
	case editorFocusTags:
		e.tags.Focus()
	}
}

func (e *editorState) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case editorFocusTitle:
		e.title, cmd = e.title.Update(msg)
	case editorFocusContent:
		e.content, cmd = e.content.Update(msg)
	case editorFocusTags:
		e.tags, cmd = e.tags.Update(msg)
	}
	return cmd
}

// draft mirrors the form into the session overlay, resolving typed tag
// names against the known tag index.
func (e *editorState) draft(known []*types.Tag) *types.NoteDraft {
	return &types.NoteDraft{
		Title:   e.title.Value(),
		Content: e.content.Value(),
		Tags:    notes.ParseDraftTags(e.tags.Value(), known),
	}
}

func (e *editorState) view(width, height int) string {
	e.content.SetWidth(width - 4)
	contentHeight := height - 10
	if contentHeight < 4 {
		contentHeight = 4
	}
	e.content.SetHeight(contentHeight)

	header := "new note"
	if e.noteID != 0 {
		header = "edit note"
	}
	sections := []string{
		detailTitleStyle.Render(header),
		"",
		editorLabelStyle.Render("Title"),
		e.title.View(),
		"",
		editorLabelStyle.Render("Content"),
		e.content.View(),
		"",
		editorLabelStyle.Render("Tags"),
		e.tags.View(),
		"",
		dimStyle.Render("tab next field  ctrl+s save  esc cancel"),
	}
	return lipgloss.NewStyle().Padding(0, 1).Render(strings.Join(sections, "\n"))
}

func (m *Model) openEditor(note *types.Note) {
	m.mode = uiModeEdit
	m.editor = newEditorState(note)
	m.store.SetEditing(true)
	m.store.SetDraft(m.editor.draft(m.tags))
}

func (m *Model) closeEditor() {
	m.mode = uiModeList
	m.editor = nil
	m.store.SetEditing(false)
	m.store.ClearDraft()
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor == nil {
		m.mode = uiModeList
		return m, nil
	}
	switch msg.Type {
	case tea.KeyEsc:
		m.closeEditor()
		m.status = "edit cancelled"
		return m, nil
	case tea.KeyTab:
		m.editor.cycleFocus(1)
		return m, nil
	case tea.KeyShiftTab:
		m.editor.cycleFocus(-1)
		return m, nil
	case tea.KeyCtrlS:
		return m, m.saveEditorCmd()
	}
	cmd := m.editor.update(msg)
	m.store.SetDraft(m.editor.draft(m.tags))
	return m, cmd
}

func (m *Model) saveEditorCmd() tea.Cmd {
	editor := m.editor
	title := strings.TrimSpace(editor.title.Value())
	if title == "" {
		m.status = "a title is required"
		return nil
	}
	content := editor.content.Value()
	tagInput := editor.tags.Value()
	store, token, id := m.store, m.token, editor.noteID
	m.closeEditor()

	if id == 0 {
		return m.mutationCmd("create", func(ctx context.Context) error {
			created, err := store.CreateNote(ctx, token, types.NoteCreate{
				Title:   title,
				Content: content,
			})
			if err != nil {
				return err
			}
			if strings.TrimSpace(tagInput) != "" {
				_, err = store.AddTagsToNote(ctx, token, created.ID, tagInput)
			}
			return err
		})
	}
	return m.mutationCmd("save", func(ctx context.Context) error {
		_, err := store.UpdateNote(ctx, token, id, types.NotePatch{
			Title:   &title,
			Content: &content,
		})
		if err != nil {
			return err
		}
		if strings.TrimSpace(tagInput) != "" {
			_, err = store.AddTagsToNote(ctx, token, id, tagInput)
		}
		return err
	})
}
