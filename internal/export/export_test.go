package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkpad/linkpad/internal/db"
	"github.com/linkpad/linkpad/internal/models"
)

func seedStore(t *testing.T) *db.Store {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database))
	return db.NewStore(database)
}

func TestSnapshot(t *testing.T) {
	s := seedStore(t)

	link, err := s.CreateLink("https://example.com/a", "Page A", "about A")
	require.NoError(t, err)
	other, err := s.CreateLink("https://example.com/b", "Page B", "")
	require.NoError(t, err)
	require.NoError(t, s.RelateLinks(link.ID, other.ID, "follow-up"))
	require.NoError(t, s.UpdateContent(link.ID, "captured body text"))
	_, err = s.AttachTag("reading", models.LinkTarget(link.ID))
	require.NoError(t, err)
	_, err = s.CreateNote("annotation for A", "about-a", link.ID)
	require.NoError(t, err)

	standalone, err := s.CreateNote("floating thoughts", "loose", "")
	require.NoError(t, err)
	_, err = s.AttachTag("journal", models.NoteTarget(standalone.ID))
	require.NoError(t, err)

	snap, err := Take(s)
	require.NoError(t, err)

	require.Len(t, snap.Links, 2)
	// Standalone notes only; the attached note rides with its link.
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "loose", snap.Notes[0].Note.Title)
	assert.Len(t, snap.Tags, 2)

	var entryA *LinkEntry
	for i := range snap.Links {
		if snap.Links[i].Link.URL == "https://example.com/a" {
			entryA = &snap.Links[i]
		}
	}
	require.NotNil(t, entryA)
	assert.Equal(t, "captured body text", entryA.Link.Content)
	require.Len(t, entryA.Tags, 1)
	assert.Equal(t, "reading", entryA.Tags[0].Slug)
	require.Len(t, entryA.Related, 1)
	assert.Equal(t, "https://example.com/b", entryA.Related[0].URL)
	require.NotNil(t, entryA.Note)
	assert.Equal(t, "annotation for A", entryA.Note.Content)
}

func TestSnapshotEmptyStore(t *testing.T) {
	s := seedStore(t)

	snap, err := Take(s)
	require.NoError(t, err)
	assert.Empty(t, snap.Links)
	assert.Empty(t, snap.Notes)
	assert.Empty(t, snap.Tags)
}

func TestWriteVault(t *testing.T) {
	s := seedStore(t)

	link, err := s.CreateLink("https://example.com/a", "Page A", "about A")
	require.NoError(t, err)
	require.NoError(t, s.UpdateContent(link.ID, "captured body"))
	_, err = s.AttachTag("reading", models.LinkTarget(link.ID))
	require.NoError(t, err)
	_, err = s.CreateNote("standalone note body", "My Note", "")
	require.NoError(t, err)

	snap, err := Take(s)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, WriteVault(snap, dir))

	linkFile, err := os.ReadFile(filepath.Join(dir, "links", "page-a.md"))
	require.NoError(t, err)
	text := string(linkFile)
	assert.Contains(t, text, "url: https://example.com/a")
	assert.Contains(t, text, "tags: [reading]")
	assert.Contains(t, text, "# Page A")
	assert.Contains(t, text, "captured body")

	noteFile, err := os.ReadFile(filepath.Join(dir, "notes", "my-note.md"))
	require.NoError(t, err)
	assert.Contains(t, string(noteFile), "standalone note body")
}

func TestVaultFileName(t *testing.T) {
	cases := []struct {
		title, id, want string
	}{
		{"Page A", "id1", "page-a.md"},
		{"Weird/Chars: Here!", "id2", "weirdchars-here.md"},
		{"", "id3", "id3.md"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, vaultFileName(tc.title, tc.id))
	}
}
