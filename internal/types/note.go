package types

import "time"

// Note is the server-authoritative record. The client holds copies;
// ids and timestamps are assigned by the server and never minted locally.
type Note struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	IsArchived bool      `json:"is_archived"`
	ThemeColor string    `json:"theme_color,omitempty"`
	FontFamily string    `json:"font_family,omitempty"`
	UserID     int       `json:"user_id,omitempty"`
	Tags       []*Tag    `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tag is shared by reference across every note that carries it. Tags are
// created and deduplicated server-side through note mutations; there is no
// standalone tag lifecycle on the client.
type Tag struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type NoteCreate struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsArchived *bool  `json:"is_archived,omitempty"`
	ThemeColor string `json:"theme_color,omitempty"`
	FontFamily string `json:"font_family,omitempty"`
}

// NotePatch carries partial updates; nil fields are omitted from the wire
// payload and left untouched by the server. The archive toggle travels
// through the same patch shape.
type NotePatch struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	IsArchived *bool   `json:"is_archived,omitempty"`
	ThemeColor *string `json:"theme_color,omitempty"`
	FontFamily *string `json:"font_family,omitempty"`
}

type TagCreate struct {
	Name string `json:"name"`
}

func CloneNote(note *Note) *Note {
	if note == nil {
		return nil
	}
	clone := *note
	if note.Tags != nil {
		clone.Tags = CloneTags(note.Tags)
	}
	return &clone
}

func CloneTag(tag *Tag) *Tag {
	if tag == nil {
		return nil
	}
	clone := *tag
	return &clone
}

func CloneNotes(notes []*Note) []*Note {
	if notes == nil {
		return nil
	}
	out := make([]*Note, 0, len(notes))
	for _, note := range notes {
		out = append(out, CloneNote(note))
	}
	return out
}

func CloneTags(tags []*Tag) []*Tag {
	if tags == nil {
		return nil
	}
	out := make([]*Tag, 0, len(tags))
	for _, tag := range tags {
		out = append(out, CloneTag(tag))
	}
	return out
}

// HasTag reports whether the note carries a tag with the given id.
func (n *Note) HasTag(tagID int) bool {
	if n == nil {
		return false
	}
	for _, tag := range n.Tags {
		if tag != nil && tag.ID == tagID {
			return true
		}
	}
	return false
}
