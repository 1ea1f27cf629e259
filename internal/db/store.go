// Entity store: CRUD and constraint enforcement for links, notes, tags,
// tag associations, and link relations.
package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/ident"
	"github.com/linkpad/linkpad/internal/models"
)

// Store provides transactional operations over the entity tables and
// keeps the search index in lock-step with them.
type Store struct {
	db *DB
}

// NewStore creates a Store over an opened, migrated database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// withTx runs fn inside a transaction, rolling back fully on any error.
// No entity, tag association, or relation is ever left half-written.
func (s *Store) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to commit transaction")
	}
	return nil
}

// isUniqueViolation is the backstop for constraint races the pre-checks
// miss; callers translate it into the specific typed error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// =====================================================
// Links
// =====================================================

const linkColumns = "id, url, title, description, is_primary, created_at, modified_at"

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLink(row rowScanner) (*models.Link, error) {
	var link models.Link
	var title, description sql.NullString
	var createdAt, modifiedAt string
	err := row.Scan(&link.ID, &link.URL, &title, &description, &link.IsPrimary, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}
	link.Title = title.String
	link.Description = description.String
	if link.CreatedAt, err = ident.Parse(createdAt); err != nil {
		return nil, err
	}
	if link.ModifiedAt, err = ident.Parse(modifiedAt); err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateLink inserts a new primary link. If the URL already exists as a
// secondary (related-only) link, that row is promoted to primary with
// the given title and description instead. An existing primary URL is a
// DUPLICATE_URL failure; the caller decides whether to treat it as
// "fetch existing".
func (s *Store) CreateLink(url, title, description string) (*models.Link, error) {
	var link *models.Link
	err := s.withTx(func(tx *sql.Tx) error {
		existing, err := linkByURLTx(tx, url)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.IsPrimary {
				return apperr.New(apperr.ErrDuplicateURL, "url %q already stored", url)
			}
			link, err = promoteLink(tx, existing, title, description)
			return err
		}
		link, err = insertLink(tx, url, title, description, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// EnsureSecondaryLink returns the link with the given URL, inserting a
// secondary (reference-only) row when absent. Used when recording the
// far end of a relation.
func (s *Store) EnsureSecondaryLink(url string) (*models.Link, error) {
	var link *models.Link
	err := s.withTx(func(tx *sql.Tx) error {
		existing, err := linkByURLTx(tx, url)
		if err != nil {
			return err
		}
		if existing != nil {
			link = existing
			return nil
		}
		link, err = insertLink(tx, url, "", "", false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func insertLink(tx *sql.Tx, url, title, description string, isPrimary bool) (*models.Link, error) {
	now := ident.Now()
	link := &models.Link{
		ID:          ident.New(),
		URL:         url,
		Title:       title,
		Description: description,
		IsPrimary:   isPrimary,
		CreatedAt:   now,
		ModifiedAt:  now,
	}
	_, err := tx.Exec(`
		INSERT INTO link (id, url, title, description, is_primary, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		link.ID, link.URL, nullable(link.Title), nullable(link.Description),
		link.IsPrimary, ident.Format(now), ident.Format(now))
	if isUniqueViolation(err) {
		return nil, apperr.Wrap(apperr.ErrDuplicateURL, err, "url %q already stored", url)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to insert link %q", url)
	}
	return link, nil
}

func promoteLink(tx *sql.Tx, link *models.Link, title, description string) (*models.Link, error) {
	now := ident.Now()
	_, err := tx.Exec(`
		UPDATE link SET title = ?, description = ?, is_primary = 1, modified_at = ?
		WHERE id = ?`,
		nullable(title), nullable(description), ident.Format(now), link.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to promote link %q", link.URL)
	}
	link.Title = title
	link.Description = description
	link.IsPrimary = true
	link.ModifiedAt = now
	return link, nil
}

func linkByURLTx(tx *sql.Tx, url string) (*models.Link, error) {
	link, err := scanLink(tx.QueryRow("SELECT "+linkColumns+" FROM link WHERE url = ?", url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load link %q", url)
	}
	return link, nil
}

// GetLink loads a link by id, including its indexed content.
func (s *Store) GetLink(id string) (*models.Link, error) {
	return s.getLink("id = ?", id)
}

// GetLinkByURL loads a link by URL, including its indexed content.
func (s *Store) GetLinkByURL(url string) (*models.Link, error) {
	return s.getLink("url = ?", url)
}

func (s *Store) getLink(where string, arg interface{}) (*models.Link, error) {
	link, err := scanLink(s.db.QueryRow("SELECT "+linkColumns+" FROM link WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.ErrNotFound, "link %v not found", arg)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load link %v", arg)
	}
	content, err := s.LinkContent(link.ID)
	if err != nil {
		return nil, err
	}
	link.Content = content
	return link, nil
}

// UpdateLink rewrites a link's mutable fields and bumps modified_at.
func (s *Store) UpdateLink(link *models.Link) error {
	return s.withTx(func(tx *sql.Tx) error {
		now := ident.Now()
		res, err := tx.Exec(`
			UPDATE link SET url = ?, title = ?, description = ?, is_primary = ?, modified_at = ?
			WHERE id = ?`,
			link.URL, nullable(link.Title), nullable(link.Description),
			link.IsPrimary, ident.Format(now), link.ID)
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrDuplicateURL, err, "url %q already stored", link.URL)
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to update link %s", link.ID)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.ErrNotFound, "link %s not found", link.ID)
		}
		link.ModifiedAt = now
		return nil
	})
}

// DeleteResult reports how a link removal was carried out.
type DeleteResult string

const (
	// Deleted means the row was removed and its notes, tag rows,
	// relations, and index entries cascaded away.
	Deleted DeleteResult = "deleted"
	// Demoted means other links still reference this one as related,
	// so it was kept as a secondary row with its annotations cleared.
	Demoted DeleteResult = "demoted"
)

// DeleteLink removes a link. If other links still point at it through
// relations, the row is demoted to secondary instead, keeping the URL
// resolvable as a relation target while dropping its notes, tags,
// outgoing relations, and indexed content.
func (s *Store) DeleteLink(id string) (DeleteResult, error) {
	result := Deleted
	err := s.withTx(func(tx *sql.Tx) error {
		var isPrimary bool
		err := tx.QueryRow("SELECT is_primary FROM link WHERE id = ?", id).Scan(&isPrimary)
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.New(apperr.ErrNotFound, "link %s not found", id)
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to load link %s", id)
		}

		var inbound int
		if err := tx.QueryRow(
			"SELECT COUNT(*) FROM related_link WHERE related_link_id = ?", id,
		).Scan(&inbound); err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to count relations for %s", id)
		}

		// Index rows have no foreign keys; clear them alongside the
		// cascading deletes, in the same transaction.
		if err := deleteNoteContentForLink(tx, id); err != nil {
			return err
		}
		if err := deleteLinkContent(tx, id); err != nil {
			return err
		}

		if inbound > 0 && isPrimary {
			result = Demoted
			stmts := []struct {
				query string
				args  []interface{}
			}{
				{"DELETE FROM note WHERE link_id = ?", []interface{}{id}},
				{"DELETE FROM item_tag WHERE link_id = ?", []interface{}{id}},
				{"DELETE FROM related_link WHERE primary_link_id = ?", []interface{}{id}},
				{"UPDATE link SET is_primary = 0, modified_at = ? WHERE id = ?",
					[]interface{}{ident.Format(ident.Now()), id}},
			}
			for _, st := range stmts {
				if _, err := tx.Exec(st.query, st.args...); err != nil {
					return apperr.Wrap(apperr.ErrStore, err, "failed to demote link %s", id)
				}
			}
			return nil
		}

		if _, err := tx.Exec("DELETE FROM link WHERE id = ?", id); err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to delete link %s", id)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// =====================================================
// Notes
// =====================================================

const noteColumns = "id, content, title, link_id, created_at, modified_at"

func scanNote(row rowScanner) (*models.Note, error) {
	var note models.Note
	var linkID sql.NullString
	var createdAt, modifiedAt string
	err := row.Scan(&note.ID, &note.Content, &note.Title, &linkID, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}
	note.LinkID = linkID.String
	if note.CreatedAt, err = ident.Parse(createdAt); err != nil {
		return nil, err
	}
	if note.ModifiedAt, err = ident.Parse(modifiedAt); err != nil {
		return nil, err
	}
	return &note, nil
}

// CreateNote inserts a new note. The title must be unique; a linkID, if
// given, must name an existing link.
func (s *Store) CreateNote(content, title, linkID string) (*models.Note, error) {
	return s.writeNote(content, title, linkID, false)
}

// UpsertNote inserts a note or, when the title already exists, replaces
// that note's content. This is the append-to-note editing flow.
func (s *Store) UpsertNote(content, title, linkID string) (*models.Note, error) {
	return s.writeNote(content, title, linkID, true)
}

func (s *Store) writeNote(content, title, linkID string, upsert bool) (*models.Note, error) {
	var note *models.Note
	err := s.withTx(func(tx *sql.Tx) error {
		if linkID != "" {
			if err := requireLink(tx, linkID); err != nil {
				return err
			}
		}

		existing, err := noteByTitleTx(tx, title)
		if err != nil {
			return err
		}
		now := ident.Now()

		if existing != nil {
			if !upsert {
				return apperr.New(apperr.ErrDuplicateTitle, "note title %q already used", title)
			}
			_, err := tx.Exec(
				"UPDATE note SET content = ?, modified_at = ? WHERE id = ?",
				content, ident.Format(now), existing.ID)
			if err != nil {
				return apperr.Wrap(apperr.ErrStore, err, "failed to update note %q", title)
			}
			existing.Content = content
			existing.ModifiedAt = now
			note = existing
			return indexNote(tx, note.ID, content)
		}

		note = &models.Note{
			ID:         ident.New(),
			Content:    content,
			Title:      title,
			LinkID:     linkID,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		_, err = tx.Exec(`
			INSERT INTO note (id, content, title, link_id, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			note.ID, note.Content, note.Title, nullable(note.LinkID),
			ident.Format(now), ident.Format(now))
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrDuplicateTitle, err, "note title %q already used", title)
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to insert note %q", title)
		}
		return indexNote(tx, note.ID, content)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func noteByTitleTx(tx *sql.Tx, title string) (*models.Note, error) {
	note, err := scanNote(tx.QueryRow("SELECT "+noteColumns+" FROM note WHERE title = ?", title))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load note %q", title)
	}
	return note, nil
}

// GetNote loads a note by id.
func (s *Store) GetNote(id string) (*models.Note, error) {
	return s.getNote("id = ?", id)
}

// GetNoteByTitle loads a note by its unique title.
func (s *Store) GetNoteByTitle(title string) (*models.Note, error) {
	return s.getNote("title = ?", title)
}

// GetNoteByLink loads the note attached to a link, if any.
func (s *Store) GetNoteByLink(linkID string) (*models.Note, error) {
	return s.getNote("link_id = ?", linkID)
}

func (s *Store) getNote(where string, arg interface{}) (*models.Note, error) {
	note, err := scanNote(s.db.QueryRow(
		"SELECT "+noteColumns+" FROM note WHERE "+where+" ORDER BY created_at LIMIT 1", arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.ErrNotFound, "note %v not found", arg)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load note %v", arg)
	}
	return note, nil
}

// NoteContent returns the current content of a note for editing.
func (s *Store) NoteContent(id string) (string, error) {
	note, err := s.GetNote(id)
	if err != nil {
		return "", err
	}
	return note.Content, nil
}

// ReplaceNoteContent stores edited text back into a note and reindexes it.
func (s *Store) ReplaceNoteContent(id, content string) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			"UPDATE note SET content = ?, modified_at = ? WHERE id = ?",
			content, ident.Format(ident.Now()), id)
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to update note %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.ErrNotFound, "note %s not found", id)
		}
		return indexNote(tx, id, content)
	})
}

// DeleteNote removes a note and its index entry; tag rows cascade.
func (s *Store) DeleteNote(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := deleteNoteContent(tx, id); err != nil {
			return err
		}
		res, err := tx.Exec("DELETE FROM note WHERE id = ?", id)
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to delete note %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.ErrNotFound, "note %s not found", id)
		}
		return nil
	})
}

// =====================================================
// Tags
// =====================================================

// AttachTag binds a tag to exactly one link or note, creating the tag if
// absent. Tag names match case-insensitively; the slug is derived
// deterministically. Attaching an already-attached tag is an
// ALREADY_TAGGED conflict, never a raw constraint error.
func (s *Store) AttachTag(name string, target models.TagTarget) (*models.Tag, error) {
	if !target.Valid() {
		return nil, apperr.New(apperr.ErrInvalidTarget,
			"tag target must reference exactly one of link or note")
	}
	slug, err := Slugify(name)
	if err != nil {
		return nil, err
	}

	var tag *models.Tag
	err = s.withTx(func(tx *sql.Tx) error {
		if target.LinkID != "" {
			if err := requireLink(tx, target.LinkID); err != nil {
				return err
			}
		} else {
			if err := requireNote(tx, target.NoteID); err != nil {
				return err
			}
		}

		tag, err = requireTag(tx, name, slug)
		if err != nil {
			return err
		}

		var count int
		err := tx.QueryRow(`
			SELECT COUNT(*) FROM item_tag
			WHERE tag_id = ? AND link_id IS ? AND note_id IS ?`,
			tag.ID, nullable(target.LinkID), nullable(target.NoteID),
		).Scan(&count)
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to check tag %q", name)
		}
		if count > 0 {
			return apperr.New(apperr.ErrAlreadyTagged, "tag %q already attached", name)
		}

		_, err = tx.Exec(
			"INSERT INTO item_tag (tag_id, link_id, note_id) VALUES (?, ?, ?)",
			tag.ID, nullable(target.LinkID), nullable(target.NoteID))
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrAlreadyTagged, err, "tag %q already attached", name)
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to attach tag %q", name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// requireTag loads a tag by case-insensitive name, inserting it if absent.
func requireTag(tx *sql.Tx, name, slug string) (*models.Tag, error) {
	var tag models.Tag
	var createdAt, modifiedAt string
	err := tx.QueryRow(
		"SELECT id, name, slug, created_at, modified_at FROM tag WHERE name = ? COLLATE NOCASE",
		name,
	).Scan(&tag.ID, &tag.Name, &tag.Slug, &createdAt, &modifiedAt)
	switch {
	case err == nil:
		if tag.CreatedAt, err = ident.Parse(createdAt); err != nil {
			return nil, err
		}
		if tag.ModifiedAt, err = ident.Parse(modifiedAt); err != nil {
			return nil, err
		}
		return &tag, nil
	case errors.Is(err, sql.ErrNoRows):
		now := ident.Now()
		tag = models.Tag{
			ID:         ident.New(),
			Name:       name,
			Slug:       slug,
			CreatedAt:  now,
			ModifiedAt: now,
		}
		_, err := tx.Exec(
			"INSERT INTO tag (id, name, slug, created_at, modified_at) VALUES (?, ?, ?, ?, ?)",
			tag.ID, tag.Name, tag.Slug, ident.Format(now), ident.Format(now))
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to insert tag %q", name)
		}
		return &tag, nil
	default:
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load tag %q", name)
	}
}

// TagBySlug loads a tag by its normalized slug.
func (s *Store) TagBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	var createdAt, modifiedAt string
	err := s.db.QueryRow(
		"SELECT id, name, slug, created_at, modified_at FROM tag WHERE slug = ?", slug,
	).Scan(&tag.ID, &tag.Name, &tag.Slug, &createdAt, &modifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.New(apperr.ErrNotFound, "tag %q not found", slug)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load tag %q", slug)
	}
	if tag.CreatedAt, err = ident.Parse(createdAt); err != nil {
		return nil, err
	}
	if tag.ModifiedAt, err = ident.Parse(modifiedAt); err != nil {
		return nil, err
	}
	return &tag, nil
}

// TagsForItem returns the tags attached to a link or note, ordered by slug.
func (s *Store) TagsForItem(itemID string) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT id, name, slug, created_at, modified_at
		FROM tag
		WHERE id IN (SELECT tag_id FROM item_tag WHERE link_id = ?1 OR note_id = ?1)
		ORDER BY slug`, itemID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load tags for %s", itemID)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var tag models.Tag
		var createdAt, modifiedAt string
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &createdAt, &modifiedAt); err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan tag")
		}
		if tag.CreatedAt, err = ident.Parse(createdAt); err != nil {
			return nil, err
		}
		if tag.ModifiedAt, err = ident.Parse(modifiedAt); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// DeleteTag removes a tag and all its associations; the tagged links and
// notes themselves are untouched.
func (s *Store) DeleteTag(id string) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec("DELETE FROM tag WHERE id = ?", id)
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to delete tag %s", id)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperr.New(apperr.ErrNotFound, "tag %s not found", id)
		}
		return nil
	})
}

// =====================================================
// Relations
// =====================================================

// RelateLinks records a directed edge from primaryID to relatedID with
// an optional relationship label.
func (s *Store) RelateLinks(primaryID, relatedID, relationship string) error {
	if primaryID == relatedID {
		return apperr.New(apperr.ErrSelfRelation, "link %s cannot relate to itself", primaryID)
	}
	return s.withTx(func(tx *sql.Tx) error {
		if err := requireLink(tx, primaryID); err != nil {
			return err
		}
		if err := requireLink(tx, relatedID); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO related_link (primary_link_id, related_link_id, relationship)
			VALUES (?, ?, ?)`,
			primaryID, relatedID, nullable(relationship))
		if isUniqueViolation(err) {
			return apperr.Wrap(apperr.ErrDuplicateRelation, err,
				"links %s and %s already related", primaryID, relatedID)
		}
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to relate links")
		}
		return nil
	})
}

// RelatedLinks returns the outward relations of a link: related URLs and
// their labels.
func (s *Store) RelatedLinks(linkID string) ([]models.RelatedLink, error) {
	rows, err := s.db.Query(`
		SELECT l.url, r.relationship
		FROM related_link r JOIN link l ON l.id = r.related_link_id
		WHERE r.primary_link_id = ?`, linkID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load relations for %s", linkID)
	}
	defer rows.Close()

	var related []models.RelatedLink
	for rows.Next() {
		var rl models.RelatedLink
		var relationship sql.NullString
		if err := rows.Scan(&rl.URL, &relationship); err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan relation")
		}
		rl.Relationship = relationship.String
		related = append(related, rl)
	}
	return related, rows.Err()
}

// InverseRelations returns ids of links that reference linkID as related.
func (s *Store) InverseRelations(linkID string) ([]string, error) {
	rows, err := s.db.Query(
		"SELECT primary_link_id FROM related_link WHERE related_link_id = ?", linkID)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "failed to load inverse relations for %s", linkID)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan relation")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =====================================================
// Content
// =====================================================

// UpdateContent replaces a link's indexed content. The base table has no
// content column; all content writes go through the search index.
func (s *Store) UpdateContent(linkID, text string) error {
	return s.withTx(func(tx *sql.Tx) error {
		if err := requireLink(tx, linkID); err != nil {
			return err
		}
		if err := indexLink(tx, linkID, text); err != nil {
			return err
		}
		_, err := tx.Exec("UPDATE link SET modified_at = ? WHERE id = ?",
			ident.Format(ident.Now()), linkID)
		if err != nil {
			return apperr.Wrap(apperr.ErrStore, err, "failed to touch link %s", linkID)
		}
		return nil
	})
}

// =====================================================
// helpers
// =====================================================

func requireLink(tx *sql.Tx, id string) error {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM link WHERE id = ?", id).Scan(&count); err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to check link %s", id)
	}
	if count == 0 {
		return apperr.New(apperr.ErrNotFound, "link %s not found", id)
	}
	return nil
}

func requireNote(tx *sql.Tx, id string) error {
	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM note WHERE id = ?", id).Scan(&count); err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to check note %s", id)
	}
	if count == 0 {
		return apperr.New(apperr.ErrNotFound, "note %s not found", id)
	}
	return nil
}

// nullable maps "" to NULL so UNIQUE and CHECK constraints treat absent
// values as absent.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
