package db

import (
	"strings"
	"unicode"

	"github.com/linkpad/linkpad/internal/apperr"
)

// Slugify normalizes a tag name for matching: lowercase, alphanumeric
// runs joined by "-", with ":" preserved as a namespace separator
// (e.g. "ns1:ns2:Actual Term" -> "ns1:ns2:actual-term"). A name that
// normalizes to nothing is invalid.
func Slugify(name string) (string, error) {
	var b strings.Builder
	isSep := true
	for _, c := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			isSep = false
			b.WriteRune(c)
		case c == ':':
			b.WriteRune(':')
		case !isSep:
			b.WriteRune('-')
			isSep = true
		}
	}

	pieces := strings.Split(b.String(), ":")
	valid := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		s := strings.Trim(piece, "-")
		if s == "" {
			return "", apperr.New(apperr.ErrTagInvalid, "invalid tag %q", name)
		}
		valid = append(valid, s)
	}
	if len(valid) == 0 {
		return "", apperr.New(apperr.ErrTagInvalid, "invalid tag %q", name)
	}
	return strings.Join(valid, ":"), nil
}
