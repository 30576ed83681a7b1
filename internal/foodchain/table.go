// Package foodchain implements the food-chain resource indices computed
// per habitat zone from an enriched observation snapshot.
package foodchain

import (
	"sort"

	"github.com/tphakala/foodchain-go/internal/zone"
)

// Row is one per-zone result: index-specific raw counts plus the
// normalized result value.
type Row struct {
	ZoneID string
	Counts map[string]float64
	Result float64
}

// Table is the output of one index calculation: at most one row per zone
// that had matching observations, ordered by zone ID until joined against
// the universe.
type Table struct {
	Index        string
	CountColumns []string
	Rows         []Row
}

// Count returns the named count for a row, or 0 when absent.
func (r *Row) Count(column string) float64 {
	if r.Counts == nil {
		return 0
	}
	return r.Counts[column]
}

// RowByZone returns the row for a zone ID, or nil when the zone produced
// no row.
func (t *Table) RowByZone(zoneID string) *Row {
	for i := range t.Rows {
		if t.Rows[i].ZoneID == zoneID {
			return &t.Rows[i]
		}
	}
	return nil
}

// sortRows orders rows by zone ID for deterministic output.
func (t *Table) sortRows() {
	sort.Slice(t.Rows, func(i, j int) bool {
		return t.Rows[i].ZoneID < t.Rows[j].ZoneID
	})
}

// Join left-joins an index table onto the zone universe. The universe is
// the driving side: the output has exactly one row per universe zone, in
// universe order. Zones absent from the table get the default result and
// zero counts; zones outside the universe are dropped.
func Join(universe *zone.Universe, table *Table, defaultValue float64) *Table {
	byZone := make(map[string]*Row, len(table.Rows))
	for i := range table.Rows {
		byZone[table.Rows[i].ZoneID] = &table.Rows[i]
	}

	joined := &Table{
		Index:        table.Index,
		CountColumns: table.CountColumns,
		Rows:         make([]Row, 0, universe.Len()),
	}

	for _, zoneID := range universe.IDs() {
		if row, ok := byZone[zoneID]; ok {
			joined.Rows = append(joined.Rows, *row)
			continue
		}
		counts := make(map[string]float64, len(table.CountColumns))
		for _, column := range table.CountColumns {
			counts[column] = 0
		}
		joined.Rows = append(joined.Rows, Row{
			ZoneID: zoneID,
			Counts: counts,
			Result: defaultValue,
		})
	}

	return joined
}
