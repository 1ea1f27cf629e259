package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linkpad/linkpad/internal/ident"
	"github.com/linkpad/linkpad/internal/models"
)

// WriteVault renders a snapshot as a markdown file hierarchy under dir:
// links/ and notes/ subdirectories, one file per item, with YAML
// front-matter carrying tags and timestamps.
func WriteVault(snap *Snapshot, dir string) error {
	for _, sub := range []string{"links", "notes"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("create vault dir: %w", err)
		}
	}

	for _, entry := range snap.Links {
		path := filepath.Join(dir, "links", vaultFileName(entry.Link.Title, entry.Link.ID))
		if err := os.WriteFile(path, []byte(renderLink(entry)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	for _, entry := range snap.Notes {
		path := filepath.Join(dir, "notes", vaultFileName(entry.Note.Title, entry.Note.ID))
		if err := os.WriteFile(path, []byte(renderNote(entry)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func renderLink(entry LinkEntry) string {
	var b strings.Builder
	writeFrontMatter(&b, entry.Link.CreatedAt, entry.Link.ModifiedAt, entry.Tags,
		"url", entry.Link.URL)

	if entry.Link.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", entry.Link.Title)
	}
	if entry.Link.Description != "" {
		b.WriteString(entry.Link.Description)
		b.WriteString("\n\n")
	}
	if entry.Note != nil {
		b.WriteString(entry.Note.Content)
		b.WriteString("\n\n")
	}
	if len(entry.Related) > 0 {
		b.WriteString("## Related\n\n")
		for _, rel := range entry.Related {
			if rel.Relationship != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", rel.URL, rel.Relationship)
			} else {
				fmt.Fprintf(&b, "- %s\n", rel.URL)
			}
		}
		b.WriteString("\n")
	}
	if entry.Link.Content != "" {
		b.WriteString("## Captured content\n\n")
		b.WriteString(entry.Link.Content)
		b.WriteString("\n")
	}
	return b.String()
}

func renderNote(entry NoteEntry) string {
	var b strings.Builder
	writeFrontMatter(&b, entry.Note.CreatedAt, entry.Note.ModifiedAt, entry.Tags,
		"title", entry.Note.Title)
	b.WriteString(entry.Note.Content)
	b.WriteString("\n")
	return b.String()
}

func writeFrontMatter(b *strings.Builder, created, modified time.Time,
	tags []models.Tag, key, value string) {
	b.WriteString("---\n")
	fmt.Fprintf(b, "%s: %s\n", key, value)
	fmt.Fprintf(b, "created: %s\n", ident.Format(created))
	fmt.Fprintf(b, "modified: %s\n", ident.Format(modified))
	if len(tags) > 0 {
		slugs := make([]string, len(tags))
		for i, tag := range tags {
			slugs[i] = tag.Slug
		}
		fmt.Fprintf(b, "tags: [%s]\n", strings.Join(slugs, ", "))
	}
	b.WriteString("---\n\n")
}

// vaultFileName derives a stable file name: the title when present,
// sanitized, falling back to the id.
func vaultFileName(title, id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		default:
			return -1
		}
	}, strings.ToLower(title))
	if name == "" {
		name = id
	}
	return name + ".md"
}
