// Query engine: filter composition over the entity tables and the
// search index.
package db

import (
	"strings"
	"time"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/models"
)

// Query composes filters into one result set. Zero values mean "no
// filter". Tags use AND semantics: an item must carry every listed tag.
// Results are ordered most-recently-modified first unless OrderCreated
// is set. Re-issuing the same Query re-executes it.
type Query struct {
	// Tags are tag names; they are slugified before matching.
	Tags []string
	// Match is an FTS5 expression over indexed content.
	Match string
	// RelatedTo restricts to links related *from* the given link id.
	RelatedTo string
	// Date range bounds, inclusive, zero means unbounded.
	CreatedFrom  time.Time
	CreatedTo    time.Time
	ModifiedFrom time.Time
	ModifiedTo   time.Time
	// PrimaryOnly excludes secondary (relation-target-only) links.
	PrimaryOnly bool
	// OrderCreated orders by creation time instead of modification time.
	OrderCreated bool
	Limit        int
	Offset       int
}

// FindLinks returns links matching every filter in q.
func (s *Store) FindLinks(q Query) ([]models.Link, error) {
	var where []string
	var args []interface{}

	if q.PrimaryOnly {
		where = append(where, "is_primary = 1")
	}

	if len(q.Tags) > 0 {
		slugs := make([]string, 0, len(q.Tags))
		for _, name := range q.Tags {
			slug, err := Slugify(name)
			if err != nil {
				return nil, err
			}
			slugs = append(slugs, slug)
		}
		placeholders := strings.Repeat("?, ", len(slugs)-1) + "?"
		where = append(where, `id IN (
			SELECT it.link_id FROM item_tag it
			JOIN tag tg ON tg.id = it.tag_id
			WHERE tg.slug IN (`+placeholders+`) AND it.link_id IS NOT NULL
			GROUP BY it.link_id
			HAVING COUNT(DISTINCT tg.id) = ?)`)
		for _, slug := range slugs {
			args = append(args, slug)
		}
		args = append(args, len(slugs))
	}

	if q.Match != "" {
		where = append(where, "id IN (SELECT link_id FROM link_content WHERE link_content MATCH ?)")
		args = append(args, q.Match)
	}

	if q.RelatedTo != "" {
		where = append(where, "id IN (SELECT related_link_id FROM related_link WHERE primary_link_id = ?)")
		args = append(args, q.RelatedTo)
	}

	dateFilters := []struct {
		at     time.Time
		clause string
	}{
		{q.CreatedFrom, "created_at >= ?"},
		{q.CreatedTo, "created_at <= ?"},
		{q.ModifiedFrom, "modified_at >= ?"},
		{q.ModifiedTo, "modified_at <= ?"},
	}
	for _, f := range dateFilters {
		if !f.at.IsZero() {
			where = append(where, f.clause)
			args = append(args, f.at.UTC().Format(time.RFC3339))
		}
	}

	query := "SELECT " + linkColumns + " FROM link"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	if q.OrderCreated {
		query += " ORDER BY created_at DESC"
	} else {
		query += " ORDER BY modified_at DESC"
	}
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
		if q.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, q.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "link query failed")
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan link")
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

// FindNotes returns notes matching the tag, text, and date filters in q.
// RelatedTo and PrimaryOnly do not apply to notes and are ignored.
func (s *Store) FindNotes(q Query) ([]models.Note, error) {
	var where []string
	var args []interface{}

	if len(q.Tags) > 0 {
		slugs := make([]string, 0, len(q.Tags))
		for _, name := range q.Tags {
			slug, err := Slugify(name)
			if err != nil {
				return nil, err
			}
			slugs = append(slugs, slug)
		}
		placeholders := strings.Repeat("?, ", len(slugs)-1) + "?"
		where = append(where, `id IN (
			SELECT it.note_id FROM item_tag it
			JOIN tag tg ON tg.id = it.tag_id
			WHERE tg.slug IN (`+placeholders+`) AND it.note_id IS NOT NULL
			GROUP BY it.note_id
			HAVING COUNT(DISTINCT tg.id) = ?)`)
		for _, slug := range slugs {
			args = append(args, slug)
		}
		args = append(args, len(slugs))
	}

	if q.Match != "" {
		where = append(where, "id IN (SELECT note_id FROM note_content WHERE note_content MATCH ?)")
		args = append(args, q.Match)
	}

	dateFilters := []struct {
		at     time.Time
		clause string
	}{
		{q.CreatedFrom, "created_at >= ?"},
		{q.CreatedTo, "created_at <= ?"},
		{q.ModifiedFrom, "modified_at >= ?"},
		{q.ModifiedTo, "modified_at <= ?"},
	}
	for _, f := range dateFilters {
		if !f.at.IsZero() {
			where = append(where, f.clause)
			args = append(args, f.at.UTC().Format(time.RFC3339))
		}
	}

	query := "SELECT " + noteColumns + " FROM note"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY modified_at DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "note query failed")
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan note")
		}
		notes = append(notes, *note)
	}
	return notes, rows.Err()
}
