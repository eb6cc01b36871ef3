package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxExtractedNames = 3

// PAN: five letters, four digits, one letter. Word boundaries are checked
// by isWordRune since \b only knows ASCII.
var reIdentifier = regexp.MustCompile(`(?i)[A-Z]{5}[0-9]{4}[A-Z]`)

// Marathi deed blobs label the party name with "नाव:-" and follow it with
// age (वय), address (पत्ता) or PAN (पॅन) fields.
var reNameSnippets = []*regexp.Regexp{
	regexp.MustCompile(`नाव[:-]\s*([^;:,\n]+?)\s*(?:वय|पत्ता|पॅन|,|;|\n)`),
}

// Role markers such as "1):", "2)：" or "१):" separate parties in unlabelled blobs
var reRoleMarker = regexp.MustCompile(`(?:^|[^\p{L}\p{N}_])[0-9०-९]+\)\s*[:：]`)

// ExtractIdentifiers returns every PAN-style code found in a free-text blob, canonicalised
func ExtractIdentifiers(blob string) []string {
	if blob == "" {
		return nil
	}

	var codes []string
	for _, loc := range reIdentifier.FindAllStringIndex(blob, -1) {
		before, _ := utf8.DecodeLastRuneInString(blob[:loc[0]])
		after, _ := utf8.DecodeRuneInString(blob[loc[1]:])
		if isWordRune(before) || isWordRune(after) {
			continue
		}
		codes = append(codes, CanonicalizeIdentifier(blob[loc[0]:loc[1]]))
	}
	return codes
}

// isWordRune reports whether r continues a word in any script
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// ExtractNames pulls up to three normalised party names out of a buyer/seller blob
func ExtractNames(blob string) []string {
	if blob == "" {
		return nil
	}

	var candidates []string
	for _, re := range reNameSnippets {
		for _, m := range re.FindAllStringSubmatch(blob, -1) {
			candidates = append(candidates, NormalizeName(m[1]))
		}
	}

	if len(candidates) == 0 {
		for _, part := range reRoleMarker.Split(blob, -1) {
			if strings.TrimSpace(part) == "" {
				continue
			}
			words := strings.Fields(strings.Map(func(r rune) rune {
				if keepRune(r) {
					return r
				}
				return ' '
			}, part))
			if len(words) >= 1 && len(words) <= 6 {
				candidates = append(candidates, NormalizeName(strings.Join(words, " ")))
			}
		}
	}

	seen := make(map[string]bool)
	var names []string
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		names = append(names, c)
	}
	if len(names) > maxExtractedNames {
		names = names[:maxExtractedNames]
	}
	return names
}
