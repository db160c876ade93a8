package classifier

import (
	"strings"
	"unicode"
)

// None marks a field that was not present on the listing page.
const None = "none"

// IsAbsent reports whether a candidate name carries no entity: empty after
// trimming, or the "none" sentinel in any case.
func IsAbsent(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || strings.EqualFold(name, None)
}

// NormalizeText trims whitespace and collapses inner runs of spaces
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeTextArray normalizes fragments, dropping the ones left empty
func NormalizeTextArray(texts []string) []string {
	result := make([]string, 0, len(texts))
	for _, text := range texts {
		if normalized := NormalizeText(text); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// TrimAllWhitespace removes all whitespace characters from text.
// Collection names are stored this way so that line breaks and the
// full-width spaces used on the listing never leak into the key.
func TrimAllWhitespace(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// JoinNotes flattens leftover fragments into the single memo string.
func JoinNotes(notes []string) string {
	return strings.TrimSpace(strings.Join(notes, " "))
}
