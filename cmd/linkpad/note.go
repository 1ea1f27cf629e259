package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/editor"
	"github.com/linkpad/linkpad/internal/ident"
	"github.com/linkpad/linkpad/internal/models"
)

var (
	noteTags    []string
	noteTitle   string
	noteMessage string
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Add a freeform note",
	Long: `Add a standalone note. Without --message the note opens in $EDITOR,
pre-filled with the existing content when the title already exists.
--message appends to an existing note of the same title.`,
	Args: cobra.NoArgs,
	RunE: runNote,
}

func init() {
	noteCmd.Flags().StringArrayVarP(&noteTags, "tag", "t", nil, "tag for the note; repeatable")
	noteCmd.Flags().StringVar(&noteTitle, "title", "", "title for the note (default: current timestamp)")
	noteCmd.Flags().StringVarP(&noteMessage, "message", "m", "", "short note text directly from the command line")
}

func runNote(cmd *cobra.Command, args []string) error {
	title := noteTitle
	if title == "" {
		title = ident.Format(ident.Now())
	}

	var existing string
	if note, err := store.GetNoteByTitle(title); err == nil {
		existing = note.Content
	} else if !apperr.Is(err, apperr.ErrNotFound) {
		return err
	}

	var content string
	var err error
	if noteMessage != "" {
		content = noteMessage
		if existing != "" {
			content = existing + "\n" + noteMessage
		}
	} else {
		if content, err = editor.Edit(existing); err != nil {
			return err
		}
	}

	if strings.TrimSpace(content) == "" {
		fmt.Println("No note to add")
		return nil
	}

	note, err := store.UpsertNote(content, title, "")
	if err != nil {
		return fmt.Errorf("unable to add note: %w", err)
	}
	if err := attachTags(noteTags, models.NoteTarget(note.ID)); err != nil {
		return fmt.Errorf("unable to tag note <%s>: %w", title, err)
	}
	fmt.Printf("Added note <%s>\n", title)
	return nil
}
