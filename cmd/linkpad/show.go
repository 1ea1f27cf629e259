package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/models"
)

var showCmd = &cobra.Command{
	Use:   "show URL",
	Short: "Show link details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	term := args[0]

	link, err := store.GetLinkByURL(term)
	if apperr.Is(err, apperr.ErrNotFound) {
		fmt.Printf("<%s> not found\n", term)
		return nil
	}
	if err != nil {
		return err
	}

	tags, err := store.TagsForItem(link.ID)
	if err != nil {
		return err
	}
	related, err := store.RelatedLinks(link.ID)
	if err != nil {
		return err
	}
	var note *models.Note
	if n, err := store.GetNoteByLink(link.ID); err == nil {
		note = n
	} else if !apperr.Is(err, apperr.ErrNotFound) {
		return err
	}

	renderLinkDetail(os.Stdout, link, tags, note, related)
	return nil
}

func renderLinkDetail(w io.Writer, link *models.Link, tags []models.Tag,
	note *models.Note, related []models.RelatedLink) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Title\t%s\n", link.Title)
	fmt.Fprintf(tw, "URL\t%s\n", link.URL)
	fmt.Fprintf(tw, "Description\t%s\n", link.Description)
	fmt.Fprintf(tw, "Added\t%s\n", link.CreatedAt.Format("2006-01-02"))
	if len(tags) > 0 {
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.Name
		}
		fmt.Fprintf(tw, "Tags\t%s\n", strings.Join(names, ", "))
	}
	if len(related) > 0 {
		lines := make([]string, len(related))
		for i, rel := range related {
			if rel.Relationship != "" {
				lines[i] = fmt.Sprintf("%s (%s)", rel.URL, rel.Relationship)
			} else {
				lines[i] = rel.URL
			}
		}
		fmt.Fprintf(tw, "See Also\t%s\n", strings.Join(lines, "; "))
	}
	if note != nil {
		fmt.Fprintf(tw, "Note\t%s\n", strings.TrimSpace(note.Content))
	}
	tw.Flush()
}
