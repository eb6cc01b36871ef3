package normalize

import (
	"github.com/mozillazg/go-unidecode"
)

// Script classifies the writing system of a name
type Script int

const (
	Latin Script = iota
	Devanagari
)

// DetectScript reports Devanagari if any rune falls in the Devanagari block.
// Mixed-script text is therefore treated as Devanagari.
func DetectScript(text string) Script {
	for _, r := range text {
		if isDevanagari(r) {
			return Devanagari
		}
	}
	return Latin
}

// Romanize renders text in plain Latin letters for phonetic encoding and
// cross-script comparison.
func (s Script) Romanize(text string) string {
	if text == "" {
		return ""
	}
	switch s {
	case Devanagari:
		return transliterateDevanagari(text)
	default:
		return unidecode.Unidecode(text)
	}
}

func (s Script) String() string {
	switch s {
	case Devanagari:
		return "devanagari"
	default:
		return "latin"
	}
}
