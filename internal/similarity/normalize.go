package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes accented characters and strips the
// combining marks, so "José" and "Jose" compare equal.
var foldTransformer = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Fold returns the input with diacritics removed. Input that fails to
// transform (invalid UTF-8) is returned unchanged rather than erroring:
// normalization is best-effort by contract.
func Fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return s
	}
	return out
}

// punctuation stripped during text normalization, matching the cleaner's
// matching alphabet. Other symbols are significant and kept.
const strippedPunct = ".,!?;:"

// Normalize canonicalizes a string for matching: diacritics folded,
// lowercased, the punctuation set stripped, and all whitespace removed.
//
//	Normalize("John  Doe.") == "johndoe"
func Normalize(s string) string {
	s = strings.ToLower(Fold(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || strings.ContainsRune(strippedPunct, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
