package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/db"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search TERM",
	Short: "Full-text search of captured content",
	Long: `Search the indexed text of captured pages and notes. Results are
ranked by relevance and shown with a highlighted snippet.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "show at most this many results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	hits, err := store.Search(args[0], searchLimit)
	if err != nil {
		return fmt.Errorf("unable to search: %w", err)
	}
	if len(hits) == 0 {
		fmt.Println("No matches")
		return nil
	}
	return renderHits(os.Stdout, hits)
}

// renderHits prints one row per hit, resolving each hit back to its
// owning link URL or note title.
func renderHits(w io.Writer, hits []db.SearchHit) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MATCH\tSNIPPET")
	for _, hit := range hits {
		var label string
		switch hit.Kind {
		case "link":
			link, err := store.GetLink(hit.ID)
			if err != nil {
				return err
			}
			label = link.URL
		case "note":
			note, err := store.GetNote(hit.ID)
			if err != nil {
				return err
			}
			label = note.Title
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, hit.Snippet)
	}
	return tw.Flush()
}
