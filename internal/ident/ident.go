// Package ident provides identifier generation and timestamp utilities.
//
// Identifiers are UUIDv7 values, so they sort roughly by creation time
// without a secondary index. Two databases can be merged without id
// collisions.
package ident

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{3,4}-[0-9a-fA-F]{3,4}-[0-9a-fA-F]{12}$`)

// New generates a new time-ordered UUIDv7 identifier.
func New() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Now returns the current UTC time truncated to whole seconds.
// All created/modified stamps flow through here so their precision
// matches the stored text representation.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Format renders a timestamp the way it is persisted.
func Format(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// Parse reads a persisted timestamp back.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// IsValid checks whether a string looks like a UUID.
func IsValid(s string) bool {
	return uuidRegex.MatchString(s)
}

// Validate returns an error if the string is not a valid identifier.
func Validate(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("invalid identifier %q: %w", s, err)
	}
	return nil
}
