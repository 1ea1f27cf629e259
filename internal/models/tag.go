package models

import "time"

// Tag is a named label shared across links and notes. Name is unique
// case-insensitively; Slug is the normalized form used in queries.
type Tag struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Slug       string    `db:"slug" json:"slug"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
}

// TableName returns the table name for Tag.
func (Tag) TableName() string {
	return "tag"
}

// TagTarget names the one entity a tag is bound to: a link or a note,
// never both, never neither. The store validates the XOR before any write.
type TagTarget struct {
	LinkID string
	NoteID string
}

// LinkTarget binds a tag to a link.
func LinkTarget(linkID string) TagTarget {
	return TagTarget{LinkID: linkID}
}

// NoteTarget binds a tag to a note.
func NoteTarget(noteID string) TagTarget {
	return TagTarget{NoteID: noteID}
}

// Valid reports whether exactly one of the two references is set.
func (t TagTarget) Valid() bool {
	return (t.LinkID != "") != (t.NoteID != "")
}
