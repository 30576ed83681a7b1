// Package trait defines the species trait reference data consumed by the
// food-chain index calculators: diet category, trophic level and
// substitution class for each surveyed species.
package trait

import (
	"strings"

	"github.com/tphakala/foodchain-go/internal/errors"
)

// DietCategory classifies a species as a prey resource or not.
type DietCategory int

const (
	DietNormal DietCategory = iota
	DietPrey
)

// Source labels used by the reference table.
const (
	labelPrey        = "Prey_S"
	labelNormal      = "Normal_S"
	labelThreatened  = "Threatened_S"
	labelAlienAlt    = "Alt_Alien_S"
	labelAlternative = "Alt_S"
	labelTierHighest = "D1"
	labelTierMiddle  = "D2"
	labelTierLowest  = "D3"
)

// ParseDietCategory converts a reference table label into a DietCategory.
// Unknown labels are a construction-time error, never a silent zero count.
func ParseDietCategory(label string) (DietCategory, error) {
	switch strings.TrimSpace(label) {
	case labelPrey:
		return DietPrey, nil
	case labelNormal:
		return DietNormal, nil
	default:
		return DietNormal, errors.Newf("unknown diet category label: %q", label).
			Category(errors.CategoryReferenceData).
			Context("label", label).
			Build()
	}
}

func (d DietCategory) String() string {
	if d == DietPrey {
		return labelPrey
	}
	return labelNormal
}

// IsPrey reports whether the category marks a prey resource.
func (d DietCategory) IsPrey() bool {
	return d == DietPrey
}

// TrophicLevel is one of three ordered diet-breadth tiers. TierD1 is the
// highest tier, TierD3 the lowest; the fallback trait uses TierD3.
type TrophicLevel int

const (
	TierD1 TrophicLevel = iota + 1
	TierD2
	TierD3
)

// TierCount is the number of trophic tiers.
const TierCount = 3

// ParseTrophicLevel converts a reference table label into a TrophicLevel.
func ParseTrophicLevel(label string) (TrophicLevel, error) {
	switch strings.TrimSpace(label) {
	case labelTierHighest:
		return TierD1, nil
	case labelTierMiddle:
		return TierD2, nil
	case labelTierLowest:
		return TierD3, nil
	default:
		return TierD3, errors.Newf("unknown trophic level label: %q", label).
			Category(errors.CategoryReferenceData).
			Context("label", label).
			Build()
	}
}

func (t TrophicLevel) String() string {
	switch t {
	case TierD1:
		return labelTierHighest
	case TierD2:
		return labelTierMiddle
	default:
		return labelTierLowest
	}
}

// SubstitutionClass describes how replaceable a species is within its
// functional role.
type SubstitutionClass int

const (
	SubstitutionNormal SubstitutionClass = iota
	SubstitutionThreatened
	SubstitutionAlienAlternative
	SubstitutionAlternative
)

// ParseSubstitutionClass converts a reference table label into a SubstitutionClass.
func ParseSubstitutionClass(label string) (SubstitutionClass, error) {
	switch strings.TrimSpace(label) {
	case labelThreatened:
		return SubstitutionThreatened, nil
	case labelAlienAlt:
		return SubstitutionAlienAlternative, nil
	case labelAlternative:
		return SubstitutionAlternative, nil
	case labelNormal:
		return SubstitutionNormal, nil
	default:
		return SubstitutionNormal, errors.Newf("unknown substitution class label: %q", label).
			Category(errors.CategoryReferenceData).
			Context("label", label).
			Build()
	}
}

func (s SubstitutionClass) String() string {
	switch s {
	case SubstitutionThreatened:
		return labelThreatened
	case SubstitutionAlienAlternative:
		return labelAlienAlt
	case SubstitutionAlternative:
		return labelAlternative
	default:
		return labelNormal
	}
}

// SpeciesTrait is one row of the reference table.
type SpeciesTrait struct {
	Species      string
	Diet         DietCategory
	Trophic      TrophicLevel
	Substitution SubstitutionClass
}

// Fallback returns the trait tuple applied to retained placeholder
// observations: normal diet, lowest trophic tier, normal substitution.
func Fallback() SpeciesTrait {
	return SpeciesTrait{
		Diet:         DietNormal,
		Trophic:      TierD3,
		Substitution: SubstitutionNormal,
	}
}

// Table is the read-only species trait lookup, keyed by species name.
type Table struct {
	traits map[string]SpeciesTrait
}

// NewTable builds a Table from reference rows. At most one trait row per
// species name is allowed; duplicates violate the data-quality precondition.
func NewTable(rows []SpeciesTrait) (*Table, error) {
	traits := make(map[string]SpeciesTrait, len(rows))
	for _, row := range rows {
		name := strings.TrimSpace(row.Species)
		if name == "" {
			return nil, errors.Newf("trait row with empty species name").
				Category(errors.CategoryReferenceData).
				Build()
		}
		if _, exists := traits[name]; exists {
			return nil, errors.Newf("duplicate trait row for species %q", name).
				Category(errors.CategoryReferenceData).
				Context("species", name).
				Build()
		}
		row.Species = name
		traits[name] = row
	}
	return &Table{traits: traits}, nil
}

// Lookup returns the trait row for a species name, or ok=false when the
// species has no reference entry. Missing entries are degraded data, not
// an error.
func (t *Table) Lookup(species string) (SpeciesTrait, bool) {
	if t == nil {
		return SpeciesTrait{}, false
	}
	trait, ok := t.traits[strings.TrimSpace(species)]
	return trait, ok
}

// Len returns the number of species in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.traits)
}
