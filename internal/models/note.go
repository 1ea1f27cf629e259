package models

import "time"

// Note is free-form markdown text, optionally attached to one Link.
// Titles are unique across all notes.
type Note struct {
	ID         string    `db:"id" json:"id"`
	Content    string    `db:"content" json:"content"`
	Title      string    `db:"title" json:"title"`
	LinkID     string    `db:"link_id" json:"link_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
}

// TableName returns the table name for Note.
func (Note) TableName() string {
	return "note"
}
