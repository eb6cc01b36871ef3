package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// Similarity scores two free-text strings (names or addresses) on a 0-100
// scale, ignoring token order and repeated tokens.
func Similarity(a, b string) int {
	score := int(TokenSetRatio(a, b))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TokenSetRatio compares the shared tokens of a and b with each side's
// leftover tokens. A string whose tokens are all contained in the other
// scores 100.
func TokenSetRatio(a, b string) float64 {
	tokensA := tokenSet(a)
	tokensB := tokenSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	var sect, diffAB, diffBA []string
	for t := range tokensA {
		if tokensB[t] {
			sect = append(sect, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for t := range tokensB {
		if !tokensA[t] {
			diffBA = append(diffBA, t)
		}
	}

	if len(sect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(diffAB)
	sort.Strings(diffBA)
	joinedAB := strings.Join(diffAB, " ")
	joinedBA := strings.Join(diffBA, " ")

	abLen := utf8.RuneCountInString(joinedAB)
	baLen := utf8.RuneCountInString(joinedBA)
	sectLen := utf8.RuneCountInString(strings.Join(sect, " "))

	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + abLen
	sectBALen := sectLen + sep + baLen

	// sect is common to both sides, so only the leftovers add distance
	result := normalizedSimilarity(indelDistance(joinedAB, joinedBA), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	sectAB := normalizedSimilarity(sep+abLen, sectLen+sectABLen)
	sectBA := normalizedSimilarity(sep+baLen, sectLen+sectBALen)

	return max(result, sectAB, sectBA)
}

func tokenSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// indelDistance counts the insertions and deletions needed to turn a into b
func indelDistance(a, b string) int {
	lcs := matchr.LongestCommonSubsequence(a, b)
	return utf8.RuneCountInString(a) + utf8.RuneCountInString(b) - 2*lcs
}

func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 * (1 - float64(dist)/float64(lensum))
}
