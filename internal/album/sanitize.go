package album

import (
	"strings"
	"unicode"
)

// SanitizeID converts a grouping key into a safe album id fragment:
// letters, digits, and Hangul pass through, everything else becomes a
// dash, runs of dashes collapse. Case is preserved because grouping
// keys are case-sensitive.
func SanitizeID(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-")
	if out == "" {
		return "unnamed"
	}
	return out
}
