// Entity store tests: constraint enforcement, cascades, and typed errors.
package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/models"
)

func TestCreateLink(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "Example A", "first page")
	require.NoError(t, err)
	assert.NotEmpty(t, link.ID)
	assert.True(t, link.IsPrimary)
	assert.False(t, link.CreatedAt.IsZero())
	assert.Equal(t, link.CreatedAt, link.ModifiedAt)

	loaded, err := s.GetLinkByURL("https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, link.ID, loaded.ID)
	assert.Equal(t, "Example A", loaded.Title)
}

func TestCreateLinkDuplicateURL(t *testing.T) {
	s := setupStore(t)

	_, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)

	_, err = s.CreateLink("https://example.com/a", "", "")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.ErrDuplicateURL), "got: %v", err)
}

func TestCreateLinkPromotesSecondary(t *testing.T) {
	s := setupStore(t)

	secondary, err := s.EnsureSecondaryLink("https://example.com/ref")
	require.NoError(t, err)
	assert.False(t, secondary.IsPrimary)

	// Re-adding the same URL as a bookmark promotes the reference row
	// instead of failing.
	promoted, err := s.CreateLink("https://example.com/ref", "Ref", "now a bookmark")
	require.NoError(t, err)
	assert.Equal(t, secondary.ID, promoted.ID)
	assert.True(t, promoted.IsPrimary)
	assert.Equal(t, "Ref", promoted.Title)
}

func TestEnsureSecondaryLinkReturnsExisting(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)

	same, err := s.EnsureSecondaryLink("https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, link.ID, same.ID)
	assert.True(t, same.IsPrimary, "existing primary must not be demoted")
}

func TestCreateNote(t *testing.T) {
	s := setupStore(t)

	note, err := s.CreateNote("some thoughts", "reading-list", "")
	require.NoError(t, err)
	assert.Empty(t, note.LinkID)

	_, err = s.CreateNote("other thoughts", "reading-list", "")
	assert.True(t, apperr.Is(err, apperr.ErrDuplicateTitle), "got: %v", err)

	_, err = s.CreateNote("text", "attached", "no-such-link")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound), "got: %v", err)
}

func TestUpsertNote(t *testing.T) {
	s := setupStore(t)

	first, err := s.UpsertNote("v1", "daily", "")
	require.NoError(t, err)

	second, err := s.UpsertNote("v1\nv2", "daily", "")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "v1\nv2", second.Content)
	assert.False(t, second.ModifiedAt.Before(first.ModifiedAt))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM note").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestReplaceNoteContent(t *testing.T) {
	s := setupStore(t)

	note, err := s.CreateNote("draft", "editing", "")
	require.NoError(t, err)

	content, err := s.NoteContent(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "draft", content)

	require.NoError(t, s.ReplaceNoteContent(note.ID, "edited body"))

	content, err = s.NoteContent(note.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited body", content)

	// The edited text must be searchable immediately.
	hits, err := s.Search("edited", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, note.ID, hits[0].ID)

	err = s.ReplaceNoteContent("no-such-note", "x")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestAttachTag(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)

	tag, err := s.AttachTag("Systems Programming", models.LinkTarget(link.ID))
	require.NoError(t, err)
	assert.Equal(t, "systems-programming", tag.Slug)

	// Case-insensitive name match reuses the tag row.
	note, err := s.CreateNote("text", "note-a", "")
	require.NoError(t, err)
	again, err := s.AttachTag("systems programming", models.NoteTarget(note.ID))
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)

	// Duplicate attachment is a typed conflict, not a constraint crash.
	_, err = s.AttachTag("Systems Programming", models.LinkTarget(link.ID))
	assert.True(t, apperr.Is(err, apperr.ErrAlreadyTagged), "got: %v", err)
}

func TestAttachTagTargetValidation(t *testing.T) {
	s := setupStore(t)

	_, err := s.AttachTag("x", models.TagTarget{})
	assert.True(t, apperr.Is(err, apperr.ErrInvalidTarget), "got: %v", err)

	_, err = s.AttachTag("x", models.TagTarget{LinkID: "a", NoteID: "b"})
	assert.True(t, apperr.Is(err, apperr.ErrInvalidTarget), "got: %v", err)

	_, err = s.AttachTag("x", models.LinkTarget("missing"))
	assert.True(t, apperr.Is(err, apperr.ErrNotFound), "got: %v", err)

	_, err = s.AttachTag("???", models.LinkTarget("whatever"))
	assert.True(t, apperr.Is(err, apperr.ErrTagInvalid), "got: %v", err)
}

func TestRelateLinks(t *testing.T) {
	s := setupStore(t)

	a, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)
	b, err := s.CreateLink("https://example.com/b", "", "")
	require.NoError(t, err)

	err = s.RelateLinks(a.ID, a.ID, "")
	assert.True(t, apperr.Is(err, apperr.ErrSelfRelation), "got: %v", err)

	err = s.RelateLinks(a.ID, "missing", "via")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound), "got: %v", err)

	require.NoError(t, s.RelateLinks(a.ID, b.ID, "via"))

	err = s.RelateLinks(a.ID, b.ID, "response-to")
	assert.True(t, apperr.Is(err, apperr.ErrDuplicateRelation), "got: %v", err)

	// The edge is directional: B->A is a distinct relation.
	require.NoError(t, s.RelateLinks(b.ID, a.ID, ""))

	related, err := s.RelatedLinks(a.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "https://example.com/b", related[0].URL)
	assert.Equal(t, "via", related[0].Relationship)
}

func TestDeleteLinkCascades(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)
	_, err = s.CreateNote("annotation", "https://example.com/a", link.ID)
	require.NoError(t, err)
	_, err = s.AttachTag("keep", models.LinkTarget(link.ID))
	require.NoError(t, err)
	require.NoError(t, s.UpdateContent(link.ID, "page text"))

	result, err := s.DeleteLink(link.ID)
	require.NoError(t, err)
	assert.Equal(t, Deleted, result)

	for _, q := range []string{
		"SELECT COUNT(*) FROM note",
		"SELECT COUNT(*) FROM item_tag",
		"SELECT COUNT(*) FROM link_content",
		"SELECT COUNT(*) FROM note_content",
	} {
		var count int
		require.NoError(t, s.db.QueryRow(q).Scan(&count))
		assert.Zero(t, count, q)
	}

	// Content is no longer searchable.
	hits, err := s.Search("page", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteLinkDemotesWhenReferenced(t *testing.T) {
	s := setupStore(t)

	a, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)
	b, err := s.CreateLink("https://example.com/b", "", "")
	require.NoError(t, err)
	require.NoError(t, s.RelateLinks(a.ID, b.ID, "via"))
	_, err = s.AttachTag("x", models.LinkTarget(b.ID))
	require.NoError(t, err)
	require.NoError(t, s.UpdateContent(b.ID, "referenced page"))

	// B is a relation target of A: removing it demotes instead.
	result, err := s.DeleteLink(b.ID)
	require.NoError(t, err)
	assert.Equal(t, Demoted, result)

	kept, err := s.GetLink(b.ID)
	require.NoError(t, err)
	assert.False(t, kept.IsPrimary)
	assert.Empty(t, kept.Content)

	tags, err := s.TagsForItem(b.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)

	// A's outward relation still resolves.
	related, err := s.RelatedLinks(a.ID)
	require.NoError(t, err)
	require.Len(t, related, 1)
}

func TestDeleteTagLeavesItems(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)
	noteA, err := s.CreateNote("a", "note-a", "")
	require.NoError(t, err)
	noteB, err := s.CreateNote("b", "note-b", "")
	require.NoError(t, err)

	tag, err := s.AttachTag("shared", models.LinkTarget(link.ID))
	require.NoError(t, err)
	_, err = s.AttachTag("shared", models.NoteTarget(noteA.ID))
	require.NoError(t, err)
	_, err = s.AttachTag("shared", models.NoteTarget(noteB.ID))
	require.NoError(t, err)

	require.NoError(t, s.DeleteTag(tag.ID))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM item_tag").Scan(&count))
	assert.Zero(t, count)

	// The three tagged items are untouched.
	_, err = s.GetLink(link.ID)
	assert.NoError(t, err)
	_, err = s.GetNote(noteA.ID)
	assert.NoError(t, err)
	_, err = s.GetNote(noteB.ID)
	assert.NoError(t, err)
}

func TestDeleteNote(t *testing.T) {
	s := setupStore(t)

	note, err := s.CreateNote("searchable body", "gone-soon", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteNote(note.ID))

	err = s.DeleteNote(note.ID)
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))

	hits, err := s.Search("searchable", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpdateContent(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)

	require.NoError(t, s.UpdateContent(link.ID, "the quick brown fox"))

	hits, err := s.Search("quick", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, link.ID, hits[0].ID)
	assert.Equal(t, "link", hits[0].Kind)

	// Replacement, not accumulation.
	require.NoError(t, s.UpdateContent(link.ID, "an entirely new body"))
	hits, err = s.Search("quick", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	loaded, err := s.GetLink(link.ID)
	require.NoError(t, err)
	assert.Equal(t, "an entirely new body", loaded.Content)
	assert.False(t, loaded.ModifiedAt.Before(loaded.CreatedAt))

	err = s.UpdateContent("missing", "text")
	assert.True(t, apperr.Is(err, apperr.ErrNotFound))
}

func TestModifiedAtMonotonic(t *testing.T) {
	s := setupStore(t)

	link, err := s.CreateLink("https://example.com/a", "", "")
	require.NoError(t, err)
	before := link.ModifiedAt

	link.Title = "retitled"
	require.NoError(t, s.UpdateLink(link))
	assert.False(t, link.ModifiedAt.Before(before))
}
