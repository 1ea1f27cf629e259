// Package models provides data model definitions for the linkpad store.
package models

import "time"

// Link is a captured URL record. The extracted page text lives only in
// the search index, not on the row; Content is populated on demand.
type Link struct {
	ID          string    `db:"id" json:"id"`
	URL         string    `db:"url" json:"url"`
	Title       string    `db:"title" json:"title,omitempty"`
	Description string    `db:"description" json:"description,omitempty"`
	IsPrimary   bool      `db:"is_primary" json:"is_primary"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	ModifiedAt  time.Time `db:"modified_at" json:"modified_at"`

	// Content is the indexed page text, filled in only by single-link
	// lookups. Empty means not fetched or never extracted.
	Content string `db:"-" json:"content,omitempty"`
}

// TableName returns the table name for Link.
func (Link) TableName() string {
	return "link"
}
