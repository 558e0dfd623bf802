package notes

import (
	"quill/internal/types"
)

// SelectNote points the selection at a note, resolved into the
// authoritative set by id when present. Passing nil clears the selection.
// Opening or closing the editor is a separate, explicit action.
func (s *Store) SelectNote(note *types.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if note == nil {
		s.selectedNote = nil
		return
	}
	if found := findNoteByID(s.allNotes, note.ID); found != nil {
		s.selectedNote = found
		return
	}
	s.selectedNote = types.CloneNote(note)
}

// SelectTag sets or clears the tag filter and recomputes the view.
func (s *Store) SelectTag(tag *types.Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTag = types.CloneTag(tag)
	s.notes = ApplyFilters(s.allNotes, s.showArchived, s.selectedTag, s.searchQuery)
}

// SetShowArchived switches the archive partition. Switching invalidates the
// selection and the tag filter, and both the tag index and the view are
// recomputed. A no-op when the partition is unchanged.
func (s *Store) SetShowArchived(archived bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.showArchived == archived {
		return
	}
	s.showArchived = archived
	// The in-memory set still belongs to the previous partition; it is not
	// snapshot material until the next fetch replaces it.
	s.hydrated = false
	s.selectedNote = nil
	s.selectedTag = nil
	s.refreshLocked()
}

func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = query
	s.notes = ApplyFilters(s.allNotes, s.showArchived, s.selectedTag, s.searchQuery)
}

// SetEditing toggles the edit session. Turning it off is expected to be
// paired with ClearDraft by the caller.
func (s *Store) SetEditing(editing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = editing
}

// SetDraft replaces the edit-session overlay wholesale. Callers pass the
// complete draft each time; the store never merges field by field.
func (s *Store) SetDraft(draft *types.NoteDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = types.CloneDraft(draft)
}

func (s *Store) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// Reset drops all in-memory state. Used on sign-out; the persisted
// snapshot stays behind its per-user key.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.hydrated = false
	s.allNotes = []*types.Note{}
	s.allTags = []*types.Tag{}
	s.notes = []*types.Note{}
	s.showArchived = false
	s.selectedTag = nil
	s.searchQuery = ""
	s.selectedNote = nil
	s.editing = false
	s.draft = nil
	s.loading = false
	s.lastErr = ""
	s.fetchSeq = map[bool]int{}
}

// Notes returns the visible subset under the current filters.
func (s *Store) Notes() []*types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneNotes(s.notes)
}

func (s *Store) AllNotes() []*types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneNotes(s.allNotes)
}

// AllTags returns the tag index for the active partition.
func (s *Store) AllTags() []*types.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneTags(s.allTags)
}

func (s *Store) NoteByID(id int) *types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneNote(findNoteByID(s.allNotes, id))
}

func (s *Store) SelectedNote() *types.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneNote(s.selectedNote)
}

func (s *Store) SelectedTag() *types.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneTag(s.selectedTag)
}

func (s *Store) ShowArchived() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showArchived
}

func (s *Store) SearchQuery() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchQuery
}

func (s *Store) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

func (s *Store) Draft() *types.NoteDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return types.CloneDraft(s.draft)
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError is the user-visible message from the most recent failed
// operation, empty after a success.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Counts reports how many notes in the authoritative set sit in each
// archive partition.
func (s *Store) Counts() (active, archived int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, note := range s.allNotes {
		if note == nil {
			continue
		}
		if note.IsArchived {
			archived++
		} else {
			active++
		}
	}
	return active, archived
}
