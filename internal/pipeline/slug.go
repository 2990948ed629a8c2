package pipeline

import (
	"strings"
	"unicode"
)

// Slugify lowercases the text and collapses every maximal run of non-letter
// characters into a single hyphen, trimming leading and trailing hyphens.
// Digits count as non-letters and are stripped: "Agent007" becomes "agent",
// not "agent-007".
func Slugify(text string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range text {
		if !unicode.IsLetter(r) {
			pendingHyphen = true
			continue
		}
		if pendingHyphen && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingHyphen = false
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// SlugifyPtr propagates absence: nil in, nil out. Callers must treat that
// distinctly from a valid empty slug.
func SlugifyPtr(text *string) *string {
	if text == nil {
		return nil
	}
	slug := Slugify(*text)
	return &slug
}
