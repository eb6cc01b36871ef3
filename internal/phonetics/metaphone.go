package phonetics

import (
	"github.com/antzucaro/matchr"

	"github.com/ledger-resolve/internal/normalize"
)

// Encoder builds script-aware Double Metaphone keys for party names.
// Devanagari names are romanised first so that a Marathi spelling and its
// English transliteration land in the same block.
type Encoder struct{}

// NewEncoder creates a phonetic encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Codes returns the primary and alternate Double Metaphone codes
func (e *Encoder) Codes(text string) (primary, alternate string) {
	if text == "" {
		return "", ""
	}
	latin := normalize.DetectScript(text).Romanize(text)
	return matchr.DoubleMetaphone(latin)
}

// Key returns the blocking key: the primary code, falling back to the alternate
func (e *Encoder) Key(text string) string {
	primary, alternate := e.Codes(text)
	if primary != "" {
		return primary
	}
	return alternate
}

// Match checks whether two names share a blocking key
func (e *Encoder) Match(a, b string) bool {
	ka, kb := e.Key(a), e.Key(b)
	return ka != "" && ka == kb
}

var defaultEncoder = NewEncoder()

// Key returns the blocking key for text using the default encoder
func Key(text string) string {
	return defaultEncoder.Key(text)
}

// Codes returns both metaphone codes for text using the default encoder
func Codes(text string) (primary, alternate string) {
	return defaultEncoder.Codes(text)
}
