package geo

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/errors"
)

// Prejoined is a SpatialJoiner for survey exports whose spatial
// containment already ran in external GIS tooling: the zone assignment
// arrives as a column of the survey table and is replayed here,
// index-aligned with the points.
type Prejoined struct {
	zoneIDs []string
}

// NewPrejoined creates a Prejoined joiner from per-point zone IDs. An
// empty string marks a point outside every zone.
func NewPrejoined(zoneIDs []string) *Prejoined {
	copied := make([]string, len(zoneIDs))
	copy(copied, zoneIDs)
	return &Prejoined{zoneIDs: copied}
}

// AssignZones returns the prepared zone assignment. The zone geometries
// are ignored; the join already happened upstream.
func (p *Prejoined) AssignZones(_ context.Context, points []PointLocation, _ []ZoneGeometry) ([]string, error) {
	if len(points) != len(p.zoneIDs) {
		return nil, errors.Newf("prejoined assignment has %d zone IDs for %d points", len(p.zoneIDs), len(points)).
			Category(errors.CategorySpatialJoin).
			Build()
	}
	assigned := make([]string, len(p.zoneIDs))
	copy(assigned, p.zoneIDs)
	return assigned, nil
}
