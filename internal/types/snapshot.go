package types

import "time"

// Snapshot is the persisted per-user cache payload: the authoritative note
// set plus the filter parameter it was fetched under. The visible subset is
// derived again on hydration rather than stored.
type Snapshot struct {
	AllNotes     []*Note   `json:"all_notes"`
	AllTags      []*Tag    `json:"all_tags"`
	ShowArchived bool      `json:"show_archived"`
	Timestamp    time.Time `json:"timestamp"`
}

func CloneSnapshot(snapshot *Snapshot) *Snapshot {
	if snapshot == nil {
		return nil
	}
	return &Snapshot{
		AllNotes:     CloneNotes(snapshot.AllNotes),
		AllTags:      CloneTags(snapshot.AllTags),
		ShowArchived: snapshot.ShowArchived,
		Timestamp:    snapshot.Timestamp,
	}
}
