package foodchain

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/observation"
)

// ConnectionPresence is the F4 index: confirmation that prey species were
// recorded in a zone at all. The raw prey record count is kept for
// inspection; the result is the presence bit.
type ConnectionPresence struct{}

// NewConnectionPresence creates the F4 calculator.
func NewConnectionPresence() *ConnectionPresence {
	return &ConnectionPresence{}
}

// Name returns the index identifier.
func (c *ConnectionPresence) Name() string {
	return IndexConnection
}

// Calculate counts prey-category records per zone and emits 1 when any
// are present, 0 otherwise.
func (c *ConnectionPresence) Calculate(_ context.Context, snap *observation.Snapshot) (*Table, error) {
	table := &Table{
		Index:        IndexConnection,
		CountColumns: []string{ColConnectionPrey},
	}

	for zoneID, group := range snap.GroupByZone() {
		var preyRecords float64
		for i := range group {
			if group[i].IsPrey() {
				preyRecords++
			}
		}

		result := 0.0
		if preyRecords > 0 {
			result = 1.0
		}

		table.Rows = append(table.Rows, Row{
			ZoneID: zoneID,
			Counts: map[string]float64{ColConnectionPrey: preyRecords},
			Result: result,
		})
	}

	table.sortRows()
	return table, nil
}
