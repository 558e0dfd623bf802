package notes

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"quill/internal/types"
)

var tagCollator = collate.New(language.Und, collate.Loose)

// ExtractAllTags collects the unique tags present on notes in the active
// archive partition. Tags are keyed by id and the first occurrence wins;
// later duplicates are ignored, not merged. The result is ordered by name
// under a locale-aware collation, with the id as a deterministic tiebreak.
func ExtractAllTags(allNotes []*types.Note, showArchived bool) []*types.Tag {
	seen := make(map[int]*types.Tag)
	order := make([]int, 0)
	for _, note := range allNotes {
		if note == nil || note.IsArchived != showArchived {
			continue
		}
		for _, tag := range note.Tags {
			if tag == nil {
				continue
			}
			if _, ok := seen[tag.ID]; ok {
				continue
			}
			seen[tag.ID] = tag
			order = append(order, tag.ID)
		}
	}

	out := make([]*types.Tag, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := tagCollator.CompareString(out[i].Name, out[j].Name); cmp != 0 {
			return cmp < 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}
