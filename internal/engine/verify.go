package engine

import (
	"strings"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
)

// Tier labels the rule that accepted or rejected a candidate
type Tier string

const (
	TierRejected     Tier = "rejected"
	TierStrict       Tier = "strict"
	TierMedium       Tier = "medium"
	TierLooseAddress Tier = "loose+address"
	TierLooseMobile  Tier = "loose+mobile"
)

// Verdict is the outcome of verifying one candidate row
type Verdict struct {
	Score int
	Tier  Tier
}

// Accepted reports whether the candidate joins the verified set
func (v Verdict) Accepted() bool {
	return v.Tier != TierRejected
}

// Verify decides whether a candidate row names the same party as any anchor
func Verify(anchors []string, row ledger.Row, tiers Tiers) bool {
	return Check(anchors, row, tiers).Accepted()
}

// Check scores a candidate against the anchors and applies the tiers.
// Names are compared in their romanised form so Devanagari and Latin
// spellings of the same name score alike.
func Check(anchors []string, row ledger.Row, tiers Tiers) Verdict {
	name := row.NameNorm()
	if name == "" {
		return Verdict{Tier: TierRejected}
	}

	candidate := normalize.ComparisonForm(name)
	best := 0
	for _, anchor := range anchors {
		if anchor == "" {
			continue
		}
		if score := Similarity(candidate, normalize.ComparisonForm(anchor)); score > best {
			best = score
		}
	}

	switch {
	case best >= tiers.NameStrict:
		return Verdict{Score: best, Tier: TierStrict}
	case best >= tiers.NameMedium:
		return Verdict{Score: best, Tier: TierMedium}
	case best >= tiers.NameLoose:
		// The candidate's address and mobile are only compared with
		// themselves; the seed carries no address or mobile of its own.
		address := row.Address()
		if Similarity(address, address) >= tiers.AddressLoose {
			return Verdict{Score: best, Tier: TierLooseAddress}
		}
		mobile := row.Mobile()
		if !tiers.MobileExactRequired || (mobile != "" && strings.Contains(mobile, mobile)) {
			return Verdict{Score: best, Tier: TierLooseMobile}
		}
	}
	return Verdict{Score: best, Tier: TierRejected}
}
