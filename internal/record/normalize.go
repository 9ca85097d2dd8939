package record

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips diacritics ("Réunion" -> "reunion").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// signatureKey keeps only [a-z0-9] from the folded input.
func signatureKey(s string) string {
	s = Fold(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Signature derives the identity key of r from Title then Date.
// Casing, punctuation, whitespace and accents do not affect it.
//
// Distinct items whose title and date normalize identically share a
// signature and will be merged.
func Signature(r Record) string {
	return signatureKey(r.Title) + signatureKey(r.Date)
}
