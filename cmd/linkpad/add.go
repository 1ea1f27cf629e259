package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/capture"
	"github.com/linkpad/linkpad/internal/editor"
	"github.com/linkpad/linkpad/internal/models"
)

var (
	addTags        []string
	addTitle       string
	addDescription string
	addNote        bool
	addMessage     string
	addRelated     string
	addRelation    string
	addRefresh     bool
	addNoFetch     bool
)

var addCmd = &cobra.Command{
	Use:   "add URL",
	Short: "Add a link",
	Long: `Add a bookmark for a URL. The page is fetched and its readable text
indexed for search. Tags, a note, and a related link can be attached in
the same call.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "tag for the link; repeatable")
	addCmd.Flags().StringVar(&addTitle, "title", "", "user-provided title for the link")
	addCmd.Flags().StringVar(&addDescription, "description", "", "user-provided description for the link")
	addCmd.Flags().BoolVarP(&addNote, "note", "n", false, "open $EDITOR for a freeform note on this link")
	addCmd.Flags().StringVarP(&addMessage, "message", "m", "", "short note text directly from the command line")
	addCmd.Flags().StringVar(&addRelated, "related-link", "", "a related URL (discussion, source of the find)")
	addCmd.Flags().StringVar(&addRelation, "relation", "", `context for the related link (e.g. "via")`)
	addCmd.Flags().BoolVar(&addRefresh, "refresh", false, "re-fetch content for an already-stored URL")
	addCmd.Flags().BoolVar(&addNoFetch, "no-fetch", false, "store the link without fetching the page")
	addCmd.MarkFlagsMutuallyExclusive("note", "message")
}

func runAdd(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if addRelation != "" && addRelated == "" {
		return fmt.Errorf("--relation requires --related-link")
	}

	outcome, err := pipeline.Capture(cmd.Context(), rawURL, capture.Options{
		Title:       addTitle,
		Description: addDescription,
		Refresh:     addRefresh,
		SkipFetch:   addNoFetch || cfg.Fetch.Disabled,
	})
	if err != nil {
		return fmt.Errorf("unable to add <%s>: %w", rawURL, err)
	}
	link := outcome.Link

	if outcome.Status == capture.StatusAlreadyExists && !addRefresh {
		fmt.Printf("Bookmark for <%s> already exists\n", link.URL)
	}

	if err := attachTags(addTags, models.LinkTarget(link.ID)); err != nil {
		return fmt.Errorf("unable to tag <%s>: %w", link.URL, err)
	}

	noteText := addMessage
	if addNote {
		if noteText, err = editor.Edit(""); err != nil {
			return err
		}
	}
	if strings.TrimSpace(noteText) != "" {
		note, err := store.UpsertNote(noteText, link.URL, link.ID)
		if err != nil {
			return fmt.Errorf("unable to add note for <%s>: %w", link.URL, err)
		}
		if err := attachTags(addTags, models.NoteTarget(note.ID)); err != nil {
			return fmt.Errorf("unable to tag note for <%s>: %w", link.URL, err)
		}
	}

	if addRelated != "" {
		relatedURL, err := capture.ValidateURL(addRelated)
		if err != nil {
			return err
		}
		related, err := store.EnsureSecondaryLink(relatedURL)
		if err != nil {
			return err
		}
		if err := store.RelateLinks(link.ID, related.ID, addRelation); err != nil {
			return fmt.Errorf("unable to relate <%s>: %w", relatedURL, err)
		}
	}

	switch outcome.Status {
	case capture.StatusCreated:
		fmt.Printf("Added bookmark for <%s>\n", link.URL)
	case capture.StatusRefreshed:
		fmt.Printf("Refreshed bookmark for <%s>\n", link.URL)
	case capture.StatusLinkSavedContentUnindexed:
		fmt.Printf("Added bookmark for <%s> (content could not be indexed)\n", link.URL)
	}
	return nil
}
