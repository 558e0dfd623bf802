package notes

import (
	"context"
	"strings"
	"sync"
	"time"

	"quill/internal/api"
	"quill/internal/cache"
	"quill/internal/logging"
	"quill/internal/types"
)

// API is the slice of the remote notes service the engine depends on.
// *api.Client satisfies it; tests substitute fakes.
type API interface {
	ListNotes(ctx context.Context, token string, archived bool) ([]*types.Note, error)
	CreateNote(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error)
	UpdateNote(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error)
	DeleteNote(ctx context.Context, token string, id int) error
	AttachTags(ctx context.Context, token string, id int, names []string) (*types.Note, error)
}

type Options struct {
	// TTL bounds snapshot freshness; zero means cache.DefaultTTL.
	TTL    time.Duration
	Logger logging.Logger
	// OnAuthError runs when the API signals an unauthenticated session.
	// The engine never retries such calls; the handler owns sign-out.
	OnAuthError func()
}

// Store holds the authoritative note set and the view derived from it.
// It is constructed explicitly and passed to consumers; there is no
// package-level instance.
//
// Mutations are network-first: local state changes only after the API call
// succeeds, so a failure leaves the view untouched apart from the error
// field. Snapshot writes are best-effort and never surface to callers.
type Store struct {
	api       API
	snapshots cache.SnapshotStore
	ttl       time.Duration
	log       logging.Logger
	onAuth    func()

	mu           sync.Mutex
	userID       string
	hydrated     bool
	allNotes     []*types.Note
	allTags      []*types.Tag
	notes        []*types.Note
	showArchived bool
	selectedTag  *types.Tag
	searchQuery  string
	selectedNote *types.Note
	editing      bool
	draft        *types.NoteDraft
	loading      bool
	lastErr      string
	fetchSeq     map[bool]int
}

func NewStore(notesAPI API, snapshots cache.SnapshotStore, opts Options) *Store {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &Store{
		api:       notesAPI,
		snapshots: snapshots,
		ttl:       ttl,
		log:       log,
		onAuth:    opts.OnAuthError,
		allNotes:  []*types.Note{},
		allTags:   []*types.Tag{},
		notes:     []*types.Note{},
		fetchSeq:  map[bool]int{},
	}
}

// FetchNotes resolves cache-or-network for the current archive partition.
// A valid snapshot for the same user and partition hydrates the store and
// skips the network. Each fetch carries a per-partition sequence number;
// a response that is no longer the latest issued for its partition is
// discarded so rapid partition toggles cannot interleave stale data.
func (s *Store) FetchNotes(ctx context.Context, token string) error {
	userID := cache.DeriveUserID(token)

	s.mu.Lock()
	s.switchUserLocked(userID)
	partition := s.showArchived
	s.fetchSeq[partition]++
	seq := s.fetchSeq[partition]
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	if snap, ok := s.loadSnapshot(ctx, userID, partition); ok {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.stale(userID, partition, seq) {
			s.log.Debug("discarding stale snapshot hydration", logging.F("archived", partition))
			return nil
		}
		s.allNotes = snap.AllNotes
		s.hydrated = true
		s.refreshLocked()
		s.repointSelectionLocked()
		s.loading = false
		return nil
	}

	fetched, err := s.api.ListNotes(ctx, token, partition)
	if err != nil {
		return s.fail(err, "failed to fetch notes")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale(userID, partition, seq) {
		s.log.Debug("discarding stale fetch response", logging.F("archived", partition))
		return nil
	}
	s.allNotes = fetched
	s.hydrated = true
	s.refreshLocked()
	s.repointSelectionLocked()
	s.persistLocked(ctx)
	s.loading = false
	return nil
}

// CreateNote creates through the API and prepends the result. New notes are
// never archived, so the note joins the view whenever the unarchived
// partition is active and the tag and search filters admit it. The created
// note becomes the selection.
func (s *Store) CreateNote(ctx context.Context, token string, payload types.NoteCreate) (*types.Note, error) {
	s.begin(token)
	created, err := s.api.CreateNote(ctx, token, payload)
	if err != nil {
		return nil, s.fail(err, "failed to create note")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.allNotes = append([]*types.Note{created}, s.allNotes...)
	s.selectedNote = created
	s.refreshLocked()
	s.persistLocked(ctx)
	s.loading = false
	return types.CloneNote(created), nil
}

// UpdateNote is the single reconciliation path for field edits and archive
// toggles. The server's copy replaces the local one by id, or joins the set
// when the note was not loaded (restoring from the other partition); a note
// whose partition no longer matches the active view leaves the view but
// stays in the authoritative set, and selection is cleared if it pointed
// there.
func (s *Store) UpdateNote(ctx context.Context, token string, id int, patch types.NotePatch) (*types.Note, error) {
	s.begin(token)
	updated, err := s.api.UpdateNote(ctx, token, id, patch)
	if err != nil {
		return nil, s.fail(err, "failed to update note")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(updated)
	if s.selectedNote != nil && s.selectedNote.ID == id {
		if updated.IsArchived != s.showArchived {
			s.selectedNote = nil
		} else {
			s.selectedNote = updated
		}
	}
	s.refreshLocked()
	s.persistLocked(ctx)
	s.loading = false
	return types.CloneNote(updated), nil
}

func (s *Store) DeleteNote(ctx context.Context, token string, id int) error {
	s.begin(token)
	if err := s.api.DeleteNote(ctx, token, id); err != nil {
		return s.fail(err, "failed to delete note")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	filtered := make([]*types.Note, 0, len(s.allNotes))
	for _, note := range s.allNotes {
		if note != nil && note.ID == id {
			continue
		}
		filtered = append(filtered, note)
	}
	s.allNotes = filtered
	if s.selectedNote != nil && s.selectedNote.ID == id {
		s.selectedNote = nil
	}
	s.refreshLocked()
	s.persistLocked(ctx)
	s.loading = false
	return nil
}

// AddTagsToNote parses comma-separated free text into tag name candidates
// and submits them. The server owns tag creation and deduplication and
// returns the note with its full tag set; reconciliation then follows the
// update path. Empty input is a no-op.
func (s *Store) AddTagsToNote(ctx context.Context, token string, id int, tagInput string) (*types.Note, error) {
	names := ParseTagNames(tagInput)
	if len(names) == 0 {
		return s.NoteByID(id), nil
	}

	s.begin(token)
	updated, err := s.api.AttachTags(ctx, token, id, names)
	if err != nil {
		return nil, s.fail(err, "failed to add tags")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertLocked(updated)
	if s.selectedNote != nil && s.selectedNote.ID == id {
		s.selectedNote = updated
	}
	s.refreshLocked()
	s.persistLocked(ctx)
	s.loading = false
	return types.CloneNote(updated), nil
}

func (s *Store) ArchiveNote(ctx context.Context, token string, id int) (*types.Note, error) {
	return s.setArchived(ctx, token, id, true)
}

func (s *Store) UnarchiveNote(ctx context.Context, token string, id int) (*types.Note, error) {
	return s.setArchived(ctx, token, id, false)
}

func (s *Store) setArchived(ctx context.Context, token string, id int, archived bool) (*types.Note, error) {
	return s.UpdateNote(ctx, token, id, types.NotePatch{IsArchived: &archived})
}

// begin opens a mutation under the token's cache partition. Mutations
// derive the user key the same way FetchNotes does, so a snapshot written
// afterwards lands under the acting user, never under a stale key.
func (s *Store) begin(token string) {
	s.mu.Lock()
	s.switchUserLocked(cache.DeriveUserID(token))
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()
}

// switchUserLocked repoints the store at a different credential's view.
// Nothing from the previous user survives the switch.
func (s *Store) switchUserLocked(userID string) {
	if userID == s.userID {
		return
	}
	s.userID = userID
	s.hydrated = false
	s.allNotes = []*types.Note{}
	s.selectedNote = nil
	s.selectedTag = nil
	s.refreshLocked()
}

// fail records the user-visible error string and fires the auth handler on
// unauthenticated responses. State reconciliation never ran, so there is
// nothing to roll back.
func (s *Store) fail(err error, fallback string) error {
	msg := fallback
	if apiErr := api.AsError(err); apiErr != nil && strings.TrimSpace(apiErr.Message) != "" {
		msg = apiErr.Message
	}

	s.mu.Lock()
	s.lastErr = msg
	s.loading = false
	handler := s.onAuth
	s.mu.Unlock()

	if api.IsAuthError(err) && handler != nil {
		handler()
	}
	return err
}

func (s *Store) loadSnapshot(ctx context.Context, userID string, partition bool) (*types.Snapshot, bool) {
	if s.snapshots == nil {
		return nil, false
	}
	snap, ok, err := s.snapshots.Load(ctx, userID)
	if err != nil {
		s.log.Warn("snapshot load failed", logging.F("error", err))
		return nil, false
	}
	if !ok || !cache.Valid(snap.Timestamp, s.ttl) {
		return nil, false
	}
	// A snapshot fetched under the other partition holds the wrong note
	// set; treat it as a miss rather than hydrating and re-filtering.
	if snap.ShowArchived != partition {
		return nil, false
	}
	return snap, true
}

func (s *Store) stale(userID string, partition bool, seq int) bool {
	return s.fetchSeq[partition] != seq || s.userID != userID || s.showArchived != partition
}

// refreshLocked recomputes everything derived from the authoritative set:
// the partition-scoped tag index, then the visible subset.
func (s *Store) refreshLocked() {
	s.allTags = ExtractAllTags(s.allNotes, s.showArchived)
	s.notes = ApplyFilters(s.allNotes, s.showArchived, s.selectedTag, s.searchQuery)
}

// repointSelectionLocked re-resolves the selection pointer into the
// replaced authoritative set after a wholesale fetch or hydration.
func (s *Store) repointSelectionLocked() {
	if s.selectedNote == nil {
		return
	}
	found := findNoteByID(s.allNotes, s.selectedNote.ID)
	if found == nil || found.IsArchived != s.showArchived {
		s.selectedNote = nil
		return
	}
	s.selectedNote = found
}

func (s *Store) upsertLocked(updated *types.Note) {
	for i, note := range s.allNotes {
		if note != nil && note.ID == updated.ID {
			s.allNotes[i] = updated
			return
		}
	}
	s.allNotes = append(s.allNotes, updated)
}

func (s *Store) persistLocked(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	// Only a set that came from a fetch or hydration is worth persisting.
	// A store that has only mutated holds just the notes it touched.
	if !s.hydrated {
		return
	}
	snap := &types.Snapshot{
		AllNotes:     s.allNotes,
		AllTags:      s.allTags,
		ShowArchived: s.showArchived,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.snapshots.Save(ctx, s.userID, snap); err != nil {
		s.log.Warn("snapshot save failed", logging.F("error", err))
	}
}

func findNoteByID(notes []*types.Note, id int) *types.Note {
	for _, note := range notes {
		if note != nil && note.ID == id {
			return note
		}
	}
	return nil
}
