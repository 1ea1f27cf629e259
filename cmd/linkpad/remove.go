package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/db"
)

var removeCmd = &cobra.Command{
	Use:     "remove ITEM",
	Aliases: []string{"rm"},
	Short:   "Remove a link or note",
	Long: `Remove the link with the given URL and/or the note with the given
title. A link that other links still reference as related is kept as a
bare reference with its tags, notes, and content cleared.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	item := args[0]
	var removed []string

	link, err := store.GetLinkByURL(item)
	switch {
	case err == nil && link.IsPrimary:
		result, err := store.DeleteLink(link.ID)
		if err != nil {
			return err
		}
		if result == db.Demoted {
			removed = append(removed, "link (kept as a reference)")
		} else {
			removed = append(removed, "link")
		}
	case err != nil && !apperr.Is(err, apperr.ErrNotFound):
		return err
	}

	note, err := store.GetNoteByTitle(item)
	switch {
	case err == nil:
		if err := store.DeleteNote(note.ID); err != nil {
			return err
		}
		removed = append(removed, "note")
	case !apperr.Is(err, apperr.ErrNotFound):
		return err
	}

	if len(removed) == 0 {
		fmt.Printf("<%s> not found\n", item)
		return nil
	}
	fmt.Printf("Removed %s for <%s>\n", strings.Join(removed, " and "), item)
	return nil
}
