// Search index synchronization and FTS5 queries.
package db

import (
	"database/sql"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/linkpad/linkpad/internal/apperr"
)

// SearchHit is one ranked full-text match.
type SearchHit struct {
	// Kind is "link" or "note".
	Kind string
	// ID identifies the owning entity.
	ID string
	// Score is the bm25 rank; lower is more relevant (SQLite convention).
	Score float64
	// Snippet is a highlighted fragment of the matched content.
	Snippet string
}

// indexLink replaces the indexed content for a link inside the caller's
// transaction. The new text is visible to search in the same transaction.
func indexLink(tx *sql.Tx, linkID, content string) error {
	if err := deleteLinkContent(tx, linkID); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO link_content (link_id, content) VALUES (?, ?)", linkID, content)
	if err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to index content for link %s", linkID)
	}
	return nil
}

func deleteLinkContent(tx *sql.Tx, linkID string) error {
	if _, err := tx.Exec("DELETE FROM link_content WHERE link_id = ?", linkID); err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to drop index entry for link %s", linkID)
	}
	return nil
}

// indexNote replaces the indexed text for a note. Markdown is flattened
// to plain text first so formatting syntax never matches searches.
func indexNote(tx *sql.Tx, noteID, content string) error {
	if err := deleteNoteContent(tx, noteID); err != nil {
		return err
	}
	_, err := tx.Exec("INSERT INTO note_content (note_id, content) VALUES (?, ?)",
		noteID, FlattenMarkdown(content))
	if err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to index content for note %s", noteID)
	}
	return nil
}

func deleteNoteContent(tx *sql.Tx, noteID string) error {
	if _, err := tx.Exec("DELETE FROM note_content WHERE note_id = ?", noteID); err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to drop index entry for note %s", noteID)
	}
	return nil
}

// deleteNoteContentForLink drops index entries for every note owned by a
// link, ahead of the cascading note delete.
func deleteNoteContentForLink(tx *sql.Tx, linkID string) error {
	_, err := tx.Exec(
		"DELETE FROM note_content WHERE note_id IN (SELECT id FROM note WHERE link_id = ?)", linkID)
	if err != nil {
		return apperr.Wrap(apperr.ErrStore, err, "failed to drop note index entries for link %s", linkID)
	}
	return nil
}

// LinkContent returns the indexed text for a link, or "" when extraction
// never succeeded for it. Absence is a valid state.
func (s *Store) LinkContent(linkID string) (string, error) {
	var content string
	err := s.db.QueryRow("SELECT content FROM link_content WHERE link_id = ?", linkID).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", apperr.Wrap(apperr.ErrStore, err, "failed to load content for link %s", linkID)
	}
	return content, nil
}

// Search runs an FTS5 query over link and note content, ranked by bm25.
func (s *Store) Search(query string, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.New(apperr.ErrStore, "search query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT 'link' AS kind, link_id AS id, rank,
		       snippet(link_content, 1, '[', ']', '...', 16)
		FROM link_content WHERE link_content MATCH ?1
		UNION ALL
		SELECT 'note' AS kind, note_id AS id, rank,
		       snippet(note_content, 1, '[', ']', '...', 16)
		FROM note_content WHERE note_content MATCH ?1
		ORDER BY rank
		LIMIT ?2`, query, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStore, err, "search %q failed", query)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var hit SearchHit
		if err := rows.Scan(&hit.Kind, &hit.ID, &hit.Score, &hit.Snippet); err != nil {
			return nil, apperr.Wrap(apperr.ErrStore, err, "failed to scan search hit")
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// FlattenMarkdown renders markdown source down to its plain text, used
// to feed the note index.
func FlattenMarkdown(src string) string {
	source := []byte(src)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.AutoLink:
			b.Write(t.URL(source))
		}
		if n.Type() == ast.TypeBlock && b.Len() > 0 {
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
