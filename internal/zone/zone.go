// Package zone models the authoritative habitat-zone (biotope) universe.
// The universe is fixed for a run and never mutated by the calculators.
package zone

import (
	"strings"

	"github.com/tphakala/foodchain-go/internal/errors"
)

// Record is one habitat zone. Attributes beyond the ID (geometry, area)
// are opaque to the scoring pipeline.
type Record struct {
	ID         string
	Attributes map[string]string
}

// Universe is the ordered, unique set of zone IDs every index table is
// joined against. Output tables carry exactly one row per universe zone.
type Universe struct {
	ids   []string
	index map[string]int
}

// NewUniverse builds a Universe from zone records, preserving input order.
// Duplicate or empty zone IDs are a validation error.
func NewUniverse(records []Record) (*Universe, error) {
	ids := make([]string, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			return nil, errors.Newf("zone record with empty ID").
				Category(errors.CategoryValidation).
				Build()
		}
		if _, exists := index[id]; exists {
			return nil, errors.Newf("duplicate zone ID %q in universe", id).
				Category(errors.CategoryValidation).
				Context("zone_id", id).
				Build()
		}
		index[id] = len(ids)
		ids = append(ids, id)
	}
	return &Universe{ids: ids, index: index}, nil
}

// IDs returns the zone IDs in universe order.
func (u *Universe) IDs() []string {
	if u == nil {
		return nil
	}
	ids := make([]string, len(u.ids))
	copy(ids, u.ids)
	return ids
}

// Contains reports whether the universe holds the given zone ID.
func (u *Universe) Contains(id string) bool {
	if u == nil {
		return false
	}
	_, ok := u.index[id]
	return ok
}

// Len returns the number of zones in the universe.
func (u *Universe) Len() int {
	if u == nil {
		return 0
	}
	return len(u.ids)
}
