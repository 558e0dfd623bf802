package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"quill/internal/types"
)

func (m *Model) layout() {
	listWidth := m.listWidth()
	contentWidth := m.width - listWidth - 1
	if contentWidth < minViewportWidth {
		contentWidth = minViewportWidth
	}
	contentHeight := m.height - 2
	if contentHeight < minContentHeight {
		contentHeight = minContentHeight
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = contentHeight
}

func (m *Model) listWidth() int {
	width := m.width / 3
	if width < minListWidth {
		width = minListWidth
	}
	if width > maxListWidth {
		width = maxListWidth
	}
	return width
}

// syncRendered refreshes the detail pane when the selection changed.
func (m *Model) syncRendered() {
	note := m.selected()
	if note == nil {
		m.renderedID = -1
		m.viewport.SetContent("No note selected.")
		return
	}
	if note.ID == m.renderedID {
		return
	}
	m.renderedID = note.ID
	m.viewport.SetContent(m.renderNote(note))
	m.viewport.GotoTop()
}

func (m *Model) renderNote(note *types.Note) string {
	var b strings.Builder
	b.WriteString(detailTitleStyle.Render(note.Title))
	b.WriteString("\n")
	if len(note.Tags) > 0 {
		names := make([]string, 0, len(note.Tags))
		for _, tag := range note.Tags {
			if tag != nil {
				names = append(names, tag.Name)
			}
		}
		b.WriteString(tagLineStyle.Render("tags: " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderMarkdown(note.Content))
	return b.String()
}

func (m *Model) renderMarkdown(content string) string {
	style := m.theme
	if style != "light" {
		style = "dark"
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(m.viewport.Width),
	)
	if err != nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	if m.mode == uiModeEdit && m.editor != nil {
		return m.editor.view(m.width, m.height)
	}

	list := m.renderList()
	detail := m.viewport.View()
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, " ", detail)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderTagBar(), body, m.renderStatusLine())
}

func (m *Model) renderList() string {
	width := m.listWidth()
	height := m.viewport.Height
	lines := make([]string, 0, height)
	for i, note := range m.visible {
		if i >= height {
			break
		}
		lines = append(lines, noteLine(note, i == m.cursor, width))
	}
	if len(m.visible) == 0 {
		empty := "no notes"
		if m.store.ShowArchived() {
			empty = "no archived notes"
		}
		lines = append(lines, dimStyle.Render(empty))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return listPaneStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func noteLine(note *types.Note, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	suffix := ""
	if len(note.Tags) > 0 {
		suffix = fmt.Sprintf(" (%d)", len(note.Tags))
	}
	available := width - ansi.StringWidth(marker) - ansi.StringWidth(suffix)
	title := note.Title
	if title == "" {
		title = "(untitled)"
	}
	title = truncateToWidth(title, available)
	line := marker + title + suffix
	if selected {
		return selectedLineStyle.Render(line)
	}
	return listLineStyle.Render(line)
}

func (m *Model) renderTagBar() string {
	parts := make([]string, 0, len(m.tags)+1)
	all := "all"
	if m.tagCursor == -1 {
		all = tagActiveStyle.Render(all)
	} else {
		all = tagStyle.Render(all)
	}
	parts = append(parts, all)
	for i, tag := range m.tags {
		label := tag.Name
		if i == m.tagCursor {
			label = tagActiveStyle.Render(label)
		} else {
			label = tagStyle.Render(label)
		}
		parts = append(parts, label)
	}
	bar := strings.Join(parts, " ")
	if m.store.ShowArchived() {
		bar = archivedBadgeStyle.Render("[archived]") + " " + bar
	}
	return truncateToWidth(bar, m.width)
}

func (m *Model) renderStatusLine() string {
	left := m.status
	if m.loading {
		left = m.loader.View() + " " + left
	}
	switch m.mode {
	case uiModeSearch:
		left = "search: " + m.search.View()
	case uiModeConfirmDelete:
		if note := m.selected(); note != nil {
			left = fmt.Sprintf("delete %q? (y/n)", note.Title)
		}
	}
	right := "j/k move  / search  tab tag  a archived  n new  e edit  x archive  d delete  y yank  q quit"
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return truncateToWidth(statusStyle.Render(left), m.width)
	}
	return statusStyle.Render(left) + strings.Repeat(" ", gap) + dimStyle.Render(right)
}

func truncateToWidth(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if ansi.StringWidth(text) <= width {
		return text
	}
	if width == 1 {
		return "…"
	}
	return ansi.Cut(text, 0, width-1) + "…"
}
