package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Devanagari block bounds
const (
	devanagariFirst = 0x0900
	devanagariLast  = 0x097F
)

// NormalizeName canonicalises a party name for storage and comparison.
// Punctuation becomes whitespace, whitespace is folded and Latin text is
// lower-cased. Devanagari code points are always kept.
func NormalizeName(raw string) string {
	if raw == "" {
		return ""
	}

	text := norm.NFC.String(raw)
	text = strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, text)
	text = strings.Join(strings.Fields(text), " ")
	text = strings.ToLower(text)

	// lower-casing can leave decomposed sequences behind (e.g. U+0130)
	return norm.NFC.String(text)
}

// CanonicalizeIdentifier strips all whitespace and upper-cases a PAN-style code
func CanonicalizeIdentifier(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ToUpper(strings.Join(strings.Fields(raw), ""))
}

// ComparisonForm returns the script-neutral form of a name used when two
// names are scored against each other.
func ComparisonForm(name string) string {
	if name == "" {
		return ""
	}
	return NormalizeName(DetectScript(name).Romanize(name))
}

func keepRune(r rune) bool {
	return isDevanagari(r) ||
		unicode.IsLetter(r) ||
		unicode.IsDigit(r) ||
		unicode.IsSpace(r) ||
		unicode.IsMark(r)
}

func isDevanagari(r rune) bool {
	return r >= devanagariFirst && r <= devanagariLast
}
