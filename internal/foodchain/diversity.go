package foodchain

import (
	"context"
	"math"

	"github.com/tphakala/foodchain-go/internal/observation"
)

// ShannonDiversity is the F2 index: Shannon entropy over per-species prey
// counts, min-max normalized across all zones of the run.
//
// Normalization is global: a zone's final score depends on the full set
// of zones processed together. The computation is two-phase, per-zone
// entropy first, then a single reduction over all zone values.
type ShannonDiversity struct{}

// NewShannonDiversity creates the F2 calculator.
func NewShannonDiversity() *ShannonDiversity {
	return &ShannonDiversity{}
}

// Name returns the index identifier.
func (c *ShannonDiversity) Name() string {
	return IndexDiversity
}

// Calculate computes per-zone entropy over prey species counts, then
// min-max normalizes across the run's zones. A zone with observations but
// no prey records still gets a row with entropy 0. When every zone yields
// the same entropy the normalization is degenerate; all results become 0
// and a warning is logged.
func (c *ShannonDiversity) Calculate(_ context.Context, snap *observation.Snapshot) (*Table, error) {
	table := &Table{
		Index:        IndexDiversity,
		CountColumns: []string{ColDiversityPrey, ColShannon},
	}

	// Phase 1: per-zone entropy, independent across zones.
	for zoneID, group := range snap.GroupByZone() {
		speciesCounts := make(map[string]float64)
		var preySum float64
		for i := range group {
			if !group[i].IsPrey() {
				continue
			}
			speciesCounts[group[i].Species] += group[i].Count
			preySum += group[i].Count
		}

		table.Rows = append(table.Rows, Row{
			ZoneID: zoneID,
			Counts: map[string]float64{
				ColDiversityPrey: preySum,
				ColShannon:       shannonEntropy(speciesCounts, preySum),
			},
		})
	}
	table.sortRows()

	// Phase 2: global min-max reduction over all computed zone values.
	normalizeShannon(table)

	return table, nil
}

// shannonEntropy computes H = -Σ p_i·log2(p_i) over per-species
// proportions. An empty species set yields 0, as does a single species
// (minimum possible diversity but nonzero abundance).
func shannonEntropy(speciesCounts map[string]float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	var h float64
	for _, count := range speciesCounts {
		if count <= 0 {
			continue
		}
		p := count / total
		h -= p * math.Log2(p)
	}
	return h
}

// normalizeShannon rescales each row's entropy to [0,1] using the run's
// minimum and maximum. When min == max the rescaling would divide by
// zero; every result is set to 0 instead, which keeps the run usable and
// matches the default fill for unobserved zones.
func normalizeShannon(table *Table) {
	if len(table.Rows) == 0 {
		return
	}

	minH := math.Inf(1)
	maxH := math.Inf(-1)
	for i := range table.Rows {
		h := table.Rows[i].Count(ColShannon)
		minH = math.Min(minH, h)
		maxH = math.Max(maxH, h)
	}

	if maxH == minH {
		serviceLogger().Warn("degenerate diversity normalization, all zones equal",
			"index", IndexDiversity,
			"zones", len(table.Rows),
			"entropy", minH)
		for i := range table.Rows {
			table.Rows[i].Result = 0
		}
		return
	}

	span := maxH - minH
	for i := range table.Rows {
		table.Rows[i].Result = (table.Rows[i].Count(ColShannon) - minH) / span
	}
}
