// Package geo declares the delegated geospatial collaborators. Their
// implementations (spatial containment, raster statistics, distribution
// modeling) live outside the scoring pipeline; the pipeline only depends
// on these signatures.
package geo

import "context"

// PointLocation is the geometry of a survey point handed to the spatial joiner.
type PointLocation struct {
	Latitude  float64
	Longitude float64
}

// ZoneGeometry is an opaque zone polygon reference. The scoring pipeline
// never inspects it.
type ZoneGeometry struct {
	ZoneID   string
	Geometry any
}

// Raster is an opaque raster layer handle produced and consumed by the
// delegated services.
type Raster any

// SpatialJoiner assigns each point to the containing zone. The returned
// slice is index-aligned with points; an empty string marks a point that
// fell outside every zone.
type SpatialJoiner interface {
	AssignZones(ctx context.Context, points []PointLocation, zones []ZoneGeometry) ([]string, error)
}

// ZonalStatistics computes per-zone raster statistics. ZonalMean returns
// the mean raster value per zone ID; zones without coverage are absent
// from the map.
type ZonalStatistics interface {
	ZonalMean(ctx context.Context, zones []ZoneGeometry, raster Raster) (map[string]float64, error)
}

// Sample is one presence record for the distribution model.
type Sample struct {
	Species  string
	Location PointLocation
}

// DistributionModel is the black-box presence-probability model. Predict
// returns one probability raster per model replicate; MeanRaster averages
// them into a single layer.
type DistributionModel interface {
	Predict(ctx context.Context, samples []Sample, layers []Raster) ([]Raster, error)
	MeanRaster(ctx context.Context, rasters []Raster) (Raster, error)
}
