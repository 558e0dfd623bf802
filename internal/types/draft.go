package types

// NoteDraft is the edit-session overlay: unsaved field values shown instead
// of the persisted note while an edit is in progress. It is replaced
// wholesale on every keystroke batch, never merged field by field, and it
// never touches the authoritative set until an explicit save.
type NoteDraft struct {
	Title   string
	Content string
	Tags    []TagRef
}

type TagRefKind int

const (
	TagRefPersisted TagRefKind = iota
	TagRefDraft
)

// TagRef distinguishes a tag that already exists on the server from one the
// user has typed but not yet saved. Draft refs are keyed by their position
// in the draft input rather than by a synthetic id.
type TagRef struct {
	kind       TagRefKind
	tag        *Tag
	draftName  string
	draftIndex int
}

func PersistedTagRef(tag *Tag) TagRef {
	return TagRef{kind: TagRefPersisted, tag: tag}
}

func DraftTagRef(index int, name string) TagRef {
	return TagRef{kind: TagRefDraft, draftIndex: index, draftName: name}
}

func (r TagRef) Kind() TagRefKind {
	return r.kind
}

func (r TagRef) Name() string {
	if r.kind == TagRefPersisted {
		if r.tag == nil {
			return ""
		}
		return r.tag.Name
	}
	return r.draftName
}

// Tag returns the persisted tag, or nil for a draft ref.
func (r TagRef) Tag() *Tag {
	if r.kind != TagRefPersisted {
		return nil
	}
	return r.tag
}

func (r TagRef) DraftIndex() int {
	return r.draftIndex
}

func CloneDraft(draft *NoteDraft) *NoteDraft {
	if draft == nil {
		return nil
	}
	clone := *draft
	if draft.Tags != nil {
		clone.Tags = append([]TagRef(nil), draft.Tags...)
	}
	return &clone
}
