package engine

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Tiers holds the similarity thresholds used to accept a candidate row.
// Scores are on the 0-100 scale returned by Similarity.
type Tiers struct {
	NameStrict   int `validate:"min=0,max=100,gtefield=NameMedium"`
	NameMedium   int `validate:"min=0,max=100,gtefield=NameLoose"`
	NameLoose    int `validate:"min=0,max=100"`
	AddressLoose int `validate:"min=0,max=100"`

	// MobileExactRequired makes a loose name match without address support
	// depend on the candidate carrying a mobile number.
	MobileExactRequired bool
}

// Settings is the immutable configuration passed to every resolution
type Settings struct {
	Tiers

	// CandidateLimit caps the rows returned by blocking
	CandidateLimit int `validate:"min=1"`
	// ResultLimit caps seed lookups and closure expansion; 0 disables the cap
	ResultLimit int `validate:"min=0"`
	// MaxHops bounds closure expansion; 1 is the classic single pass
	MaxHops int `validate:"min=1,max=5"`
}

// DefaultSettings returns the production thresholds and limits
func DefaultSettings() Settings {
	return Settings{
		Tiers: Tiers{
			NameStrict:   92,
			NameMedium:   85,
			NameLoose:    75,
			AddressLoose: 70,
		},
		CandidateLimit: 5000,
		ResultLimit:    10000,
		MaxHops:        1,
	}
}

var validate = validator.New()

// Validate checks threshold ordering and limit ranges
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid matching settings: %w", err)
	}
	return nil
}
