package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims the string and collapses internal whitespace runs
// to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans a contact name as extracted from OCR or CSV input:
// whitespace runs are collapsed and each word is title-cased. OCR output is
// frequently all-caps, so the rest of each word is lowered.
func NormalizeName(name string) string {
	cleaned := TrimAndNormalize(name)
	if cleaned == "" {
		return ""
	}

	words := strings.Split(cleaned, " ")
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// FirstNameToken returns the first whitespace-separated token of a name,
// the part gender inference is keyed on.
func FirstNameToken(name string) string {
	normalized := TrimAndNormalize(name)
	if normalized == "" {
		return ""
	}
	if i := strings.IndexByte(normalized, ' '); i > 0 {
		return normalized[:i]
	}
	return normalized
}
