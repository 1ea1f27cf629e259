package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/db"
	"github.com/linkpad/linkpad/internal/models"
)

var (
	listTags  []string
	listNotes bool
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show all links",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringArrayVarP(&listTags, "tag", "t", nil, "show only items matching every given tag; repeatable")
	listCmd.Flags().BoolVar(&listNotes, "notes", false, "list standalone notes instead of links")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "show at most this many items")
}

func runList(cmd *cobra.Command, args []string) error {
	q := db.Query{Tags: listTags, PrimaryOnly: true, OrderCreated: true, Limit: listLimit}

	if listNotes {
		notes, err := store.FindNotes(q)
		if err != nil {
			return err
		}
		renderNoteList(os.Stdout, notes)
		return nil
	}

	links, err := store.FindLinks(q)
	if err != nil {
		return err
	}
	renderLinkList(os.Stdout, links)
	return nil
}

func renderLinkList(w io.Writer, links []models.Link) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "URL\tTITLE\tCREATED")
	for _, link := range links {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", link.URL, link.Title, link.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
}

func renderNoteList(w io.Writer, notes []models.Note) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCREATED")
	for _, note := range notes {
		fmt.Fprintf(tw, "%s\t%s\n", note.Title, note.CreatedAt.Format("2006-01-02"))
	}
	tw.Flush()
}
