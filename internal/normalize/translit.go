package normalize

import (
	"strings"
)

const (
	virama       = '्'
	nukta        = '़'
	anusvara     = 'ं'
	chandrabindu = 'ँ'
	visarga      = 'ः'
	avagraha     = 'ऽ'
	om           = 'ॐ'
	danda        = '।'
	doubleDanda  = '॥'
	digitZero    = '०'
	digitNine    = '९'
)

var consonants = map[rune]string{
	'क': "k", 'ख': "kh", 'ग': "g", 'घ': "gh", 'ङ': "n",
	'च': "ch", 'छ': "chh", 'ज': "j", 'झ': "jh", 'ञ': "n",
	'ट': "t", 'ठ': "th", 'ड': "d", 'ढ': "dh", 'ण': "n",
	'त': "t", 'थ': "th", 'द': "d", 'ध': "dh", 'न': "n", 'ऩ': "n",
	'प': "p", 'फ': "ph", 'ब': "b", 'भ': "bh", 'म': "m",
	'य': "y", 'र': "r", 'ऱ': "r", 'ल': "l", 'ळ': "l", 'ऴ': "l", 'व': "v",
	'श': "sh", 'ष': "sh", 'स': "s", 'ह': "h",
	// precomposed nukta letters
	'\u0958': "q", '\u0959': "kh", '\u095A': "g", '\u095B': "z",
	'\u095C': "r", '\u095D': "rh", '\u095E': "f", '\u095F': "y",
}

// consonant + nukta sequences as produced by NFC
var nuktaForms = map[rune]string{
	'क': "q", 'ज': "z", 'ड': "r", 'ढ': "rh", 'फ': "f",
}

var vowelSigns = map[rune]string{
	'ा': "a", 'ि': "i", 'ी': "i", 'ु': "u", 'ू': "u",
	'ृ': "ri", 'ॄ': "ri", 'ॢ': "li", 'ॣ': "li",
	'ॅ': "e", 'ॆ': "e", 'े': "e", 'ै': "ai",
	'ॉ': "o", 'ॊ': "o", 'ो': "o", 'ौ': "au",
}

var independentVowels = map[rune]string{
	'अ': "a", 'आ': "a", 'ॲ': "a", 'इ': "i", 'ई': "i", 'उ': "u", 'ऊ': "u",
	'ऋ': "ri", 'ॠ': "ri", 'ऌ': "li", 'ॡ': "li",
	'ऍ': "e", 'ऎ': "e", 'ए': "e", 'ऐ': "ai",
	'ऑ': "o", 'ऒ': "o", 'ओ': "o", 'औ': "au",
}

func isLabial(r rune) bool {
	switch r {
	case 'प', 'फ', 'ब', 'भ', 'म':
		return true
	}
	return false
}

// transliterator tracks the inherent vowel of the last consonant so it can
// be written, suppressed by a vowel sign or virama, or dropped at word end.
type transliterator struct {
	out      strings.Builder
	pending  bool
	joined   bool
	aksharas int
}

func (t *transliterator) resolve() {
	if t.pending {
		t.out.WriteByte('a')
		t.pending = false
	}
}

// endWord drops the final inherent vowel of multi-syllable words (संजय -> sanjay)
func (t *transliterator) endWord() {
	if t.pending && t.aksharas <= 1 {
		t.out.WriteByte('a')
	}
	t.pending = false
	t.joined = false
	t.aksharas = 0
}

func transliterateDevanagari(text string) string {
	runes := []rune(text)
	t := &transliterator{}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if latin, ok := consonants[r]; ok {
			t.resolve()
			if i+1 < len(runes) && runes[i+1] == nukta {
				if alt, ok := nuktaForms[r]; ok {
					latin = alt
				}
				i++
			}
			t.out.WriteString(latin)
			if !t.joined {
				t.aksharas++
			}
			t.joined = false
			t.pending = true
			continue
		}
		if latin, ok := vowelSigns[r]; ok {
			t.out.WriteString(latin)
			t.pending = false
			continue
		}
		if latin, ok := independentVowels[r]; ok {
			t.resolve()
			t.out.WriteString(latin)
			t.aksharas++
			continue
		}

		switch {
		case r == virama:
			t.pending = false
			t.joined = true
		case r == nukta, r == avagraha:
		case r == anusvara, r == chandrabindu:
			t.resolve()
			if i+1 < len(runes) && isLabial(runes[i+1]) {
				t.out.WriteByte('m')
			} else {
				t.out.WriteByte('n')
			}
		case r == visarga:
			t.resolve()
			t.out.WriteByte('h')
		case r == om:
			t.resolve()
			t.out.WriteString("om")
			t.aksharas++
		case r >= digitZero && r <= digitNine:
			t.resolve()
			t.out.WriteByte(byte('0' + (r - digitZero)))
		case r == danda, r == doubleDanda:
			t.endWord()
			t.out.WriteByte(' ')
		case isDevanagari(r):
			// unassigned or rare signs carry no sound we can use
		default:
			t.endWord()
			t.out.WriteRune(r)
		}
	}
	t.endWord()

	return t.out.String()
}
