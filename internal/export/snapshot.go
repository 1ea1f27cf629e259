// Package export provides a read-only traversal of the whole store for
// vault renderers.
package export

import (
	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/db"
	"github.com/linkpad/linkpad/internal/models"
)

// Snapshot is a complete picture of the store at one point in time:
// every link with its indexed content, every note, the tags, and the
// relations between links.
type Snapshot struct {
	Links []LinkEntry
	Notes []NoteEntry
	Tags  []models.Tag
}

// LinkEntry is a link together with everything attached to it.
type LinkEntry struct {
	Link    models.Link
	Tags    []models.Tag
	Related []models.RelatedLink
	// Note is the annotation attached to this link, nil when none.
	Note *models.Note
}

// NoteEntry is a standalone note (not attached to any link) with its tags.
type NoteEntry struct {
	Note models.Note
	Tags []models.Tag
}

// Take reads the whole store. Purely read-only; safe to run against a
// live database.
func Take(store *db.Store) (*Snapshot, error) {
	snap := &Snapshot{}

	links, err := store.FindLinks(db.Query{})
	if err != nil {
		return nil, err
	}
	for _, link := range links {
		entry := LinkEntry{Link: link}

		// FindLinks does not hydrate content; pull it per link.
		if entry.Link.Content, err = store.LinkContent(link.ID); err != nil {
			return nil, err
		}
		if entry.Tags, err = store.TagsForItem(link.ID); err != nil {
			return nil, err
		}
		if entry.Related, err = store.RelatedLinks(link.ID); err != nil {
			return nil, err
		}
		note, err := store.GetNoteByLink(link.ID)
		if err != nil && !apperr.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		if err == nil {
			entry.Note = note
		}
		snap.Links = append(snap.Links, entry)
	}

	notes, err := store.FindNotes(db.Query{})
	if err != nil {
		return nil, err
	}
	for _, note := range notes {
		if note.LinkID != "" {
			continue
		}
		entry := NoteEntry{Note: note}
		if entry.Tags, err = store.TagsForItem(note.ID); err != nil {
			return nil, err
		}
		snap.Notes = append(snap.Notes, entry)
	}

	tags := map[string]models.Tag{}
	for _, e := range snap.Links {
		for _, tag := range e.Tags {
			tags[tag.ID] = tag
		}
	}
	for _, e := range snap.Notes {
		for _, tag := range e.Tags {
			tags[tag.ID] = tag
		}
	}
	for _, tag := range tags {
		snap.Tags = append(snap.Tags, tag)
	}
	return snap, nil
}
