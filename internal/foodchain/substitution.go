package foodchain

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/observation"
	"github.com/tphakala/foodchain-go/internal/trait"
)

// FunctionalSubstitution is the F5 index: record counts per substitution
// class and a presence bit for the "alternative" class.
type FunctionalSubstitution struct{}

// NewFunctionalSubstitution creates the F5 calculator.
func NewFunctionalSubstitution() *FunctionalSubstitution {
	return &FunctionalSubstitution{}
}

// Name returns the index identifier.
func (c *FunctionalSubstitution) Name() string {
	return IndexSubstitution
}

// Calculate counts observations per substitution class and zone.
// Observations without trait data contribute to no class. The result is
// 1 when the alternative class has any records, 0 otherwise.
func (c *FunctionalSubstitution) Calculate(_ context.Context, snap *observation.Snapshot) (*Table, error) {
	table := &Table{
		Index:        IndexSubstitution,
		CountColumns: []string{ColThreatened, ColAlien, ColAlternative, ColNormal},
	}

	for zoneID, group := range snap.GroupByZone() {
		counts := map[string]float64{
			ColThreatened:  0,
			ColAlien:       0,
			ColAlternative: 0,
			ColNormal:      0,
		}
		for i := range group {
			if group[i].Traits == nil {
				continue
			}
			switch group[i].Traits.Substitution {
			case trait.SubstitutionThreatened:
				counts[ColThreatened]++
			case trait.SubstitutionAlienAlternative:
				counts[ColAlien]++
			case trait.SubstitutionAlternative:
				counts[ColAlternative]++
			case trait.SubstitutionNormal:
				counts[ColNormal]++
			}
		}

		result := 0.0
		if counts[ColAlternative] > 0 {
			result = 1.0
		}

		table.Rows = append(table.Rows, Row{
			ZoneID: zoneID,
			Counts: counts,
			Result: result,
		})
	}

	table.sortRows()
	return table, nil
}
