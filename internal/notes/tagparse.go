package notes

import (
	"strings"

	"quill/internal/types"
)

// ParseTagNames splits comma-separated free-text input into trimmed,
// non-empty tag name candidates. Deduplication stays server-side.
func ParseTagNames(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// ParseDraftTags resolves free-text tag input against the known tag set for
// display while editing. Names matching a known tag (case-insensitive)
// become persisted refs; everything else becomes a draft ref keyed by its
// position in the input. Nothing here touches the authoritative set.
func ParseDraftTags(input string, known []*types.Tag) []types.TagRef {
	names := ParseTagNames(input)
	out := make([]types.TagRef, 0, len(names))
	for i, name := range names {
		if tag := findTagByName(known, name); tag != nil {
			out = append(out, types.PersistedTagRef(tag))
			continue
		}
		out = append(out, types.DraftTagRef(i, name))
	}
	return out
}

func findTagByName(tags []*types.Tag, name string) *types.Tag {
	for _, tag := range tags {
		if tag != nil && strings.EqualFold(tag.Name, name) {
			return tag
		}
	}
	return nil
}
