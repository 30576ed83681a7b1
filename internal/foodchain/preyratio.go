package foodchain

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/observation"
)

// PreyRatio is the F1 index: the share of prey individuals among all
// surveyed individuals per zone.
type PreyRatio struct{}

// NewPreyRatio creates the F1 calculator.
func NewPreyRatio() *PreyRatio {
	return &PreyRatio{}
}

// Name returns the index identifier.
func (c *PreyRatio) Name() string {
	return IndexPreyRatio
}

// Calculate sums prey-category and total individual counts per zone and
// emits prey/total. Any grouped zone has at least one observation, so the
// total is never zero.
func (c *PreyRatio) Calculate(_ context.Context, snap *observation.Snapshot) (*Table, error) {
	table := &Table{
		Index:        IndexPreyRatio,
		CountColumns: []string{ColPreyCount, ColTotalCount},
	}

	for zoneID, group := range snap.GroupByZone() {
		var preySum, totalSum float64
		for i := range group {
			totalSum += group[i].Count
			if group[i].IsPrey() {
				preySum += group[i].Count
			}
		}
		table.Rows = append(table.Rows, Row{
			ZoneID: zoneID,
			Counts: map[string]float64{
				ColPreyCount:  preySum,
				ColTotalCount: totalSum,
			},
			Result: preySum / totalSum,
		})
	}

	table.sortRows()
	return table, nil
}
