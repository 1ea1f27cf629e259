package main

import (
	"github.com/linkpad/linkpad/internal/apperr"
	"github.com/linkpad/linkpad/internal/models"
)

// attachTags binds each named tag to the target. A tag that is already
// attached is skipped rather than failing the whole command.
func attachTags(names []string, target models.TagTarget) error {
	for _, name := range names {
		_, err := store.AttachTag(name, target)
		if err != nil && !apperr.Is(err, apperr.ErrAlreadyTagged) {
			return err
		}
	}
	return nil
}
