package foodchain

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/observation"
	"github.com/tphakala/foodchain-go/internal/trait"
)

// DefaultTrophicScores is the standard score table, ordered from all
// tiers present down to a single tier.
var DefaultTrophicScores = [trait.TierCount]float64{1.0, 0.6, 0.3}

// TrophicCoverage is the F3 index: how many of the three trophic tiers
// are represented in a zone, mapped through an ordered score table.
type TrophicCoverage struct {
	scores [trait.TierCount]float64
}

// NewTrophicCoverage creates the F3 calculator from a 3-entry score
// table ordered from full coverage to single-tier coverage.
func NewTrophicCoverage(scores []float64) (*TrophicCoverage, error) {
	if len(scores) != trait.TierCount {
		return nil, errors.Newf("trophic score table must have exactly %d entries, got %d", trait.TierCount, len(scores)).
			Category(errors.CategoryConfiguration).
			Context("entries", len(scores)).
			Build()
	}
	c := &TrophicCoverage{}
	copy(c.scores[:], scores)
	return c, nil
}

// Name returns the index identifier.
func (c *TrophicCoverage) Name() string {
	return IndexTrophicCoverage
}

// Calculate counts observations per trophic tier and zone, then scores
// the zone by how many distinct tiers are present. Observations without
// trait data contribute to no tier, so a grouped zone can present zero
// tiers; such zones score 0 rather than indexing past the score table.
func (c *TrophicCoverage) Calculate(_ context.Context, snap *observation.Snapshot) (*Table, error) {
	table := &Table{
		Index:        IndexTrophicCoverage,
		CountColumns: []string{ColTierD1, ColTierD2, ColTierD3},
	}

	for zoneID, group := range snap.GroupByZone() {
		var tierCounts [trait.TierCount]float64
		for i := range group {
			if group[i].Traits == nil {
				continue
			}
			switch group[i].Traits.Trophic {
			case trait.TierD1:
				tierCounts[0]++
			case trait.TierD2:
				tierCounts[1]++
			case trait.TierD3:
				tierCounts[2]++
			}
		}

		distinct := 0
		for _, n := range tierCounts {
			if n > 0 {
				distinct++
			}
		}

		result := 0.0
		if distinct > 0 {
			result = c.scores[trait.TierCount-distinct]
		}

		table.Rows = append(table.Rows, Row{
			ZoneID: zoneID,
			Counts: map[string]float64{
				ColTierD1: tierCounts[0],
				ColTierD2: tierCounts[1],
				ColTierD3: tierCounts[2],
			},
			Result: result,
		})
	}

	table.sortRows()
	return table, nil
}
