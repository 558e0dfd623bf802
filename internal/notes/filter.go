package notes

import (
	"strings"

	"quill/internal/types"
)

// ApplyFilters derives the visible subset of allNotes. The three predicates
// are applied in a fixed order: archive partition, selected tag, free-text
// search. Each is a pure set intersection, so the result is the same
// regardless of order; the ordering only matters for short-circuiting.
func ApplyFilters(allNotes []*types.Note, showArchived bool, selectedTag *types.Tag, searchQuery string) []*types.Note {
	query := strings.ToLower(strings.TrimSpace(searchQuery))
	out := make([]*types.Note, 0, len(allNotes))
	for _, note := range allNotes {
		if note == nil {
			continue
		}
		if note.IsArchived != showArchived {
			continue
		}
		if selectedTag != nil && !note.HasTag(selectedTag.ID) {
			continue
		}
		if query != "" && !matchesQuery(note, query) {
			continue
		}
		out = append(out, note)
	}
	return out
}

// matchesQuery reports a case-insensitive substring match against the
// note's title, content, or any tag name. query must already be lowercased
// and trimmed.
func matchesQuery(note *types.Note, query string) bool {
	if strings.Contains(strings.ToLower(note.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Content), query) {
		return true
	}
	for _, tag := range note.Tags {
		if tag == nil {
			continue
		}
		if strings.Contains(strings.ToLower(tag.Name), query) {
			return true
		}
	}
	return false
}
