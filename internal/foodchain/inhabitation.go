package foodchain

import (
	"context"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/geo"
)

// InhabitationProbability is the F6 index: the mean predicted presence
// probability of food-resource species per zone. Distribution modeling,
// raster averaging and zonal statistics are delegated entirely to the
// geospatial collaborators; this type only orchestrates them and shapes
// the per-zone table.
type InhabitationProbability struct {
	model geo.DistributionModel
	stats geo.ZonalStatistics
}

// NewInhabitationProbability creates the F6 orchestrator.
func NewInhabitationProbability(model geo.DistributionModel, stats geo.ZonalStatistics) (*InhabitationProbability, error) {
	if model == nil || stats == nil {
		return nil, errors.Newf("distribution model and zonal statistics are required").
			Category(errors.CategoryModelRun).
			Build()
	}
	return &InhabitationProbability{model: model, stats: stats}, nil
}

// Name returns the index identifier.
func (c *InhabitationProbability) Name() string {
	return IndexInhabitation
}

// Calculate runs the distribution model over the survey samples and
// environmental layers, averages the replicate rasters, and reduces the
// mean raster to one value per zone. Zones without raster coverage
// produce no row and are filled by the universe join.
func (c *InhabitationProbability) Calculate(ctx context.Context, samples []geo.Sample, zones []geo.ZoneGeometry, layers []geo.Raster) (*Table, error) {
	rasters, err := c.model.Predict(ctx, samples, layers)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryModelRun).
			Context("samples", len(samples)).
			Context("layers", len(layers)).
			Build()
	}

	mean, err := c.model.MeanRaster(ctx, rasters)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategoryModelRun).
			Context("rasters", len(rasters)).
			Build()
	}

	zonalMeans, err := c.stats.ZonalMean(ctx, zones, mean)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySpatialJoin).
			Context("zones", len(zones)).
			Build()
	}

	table := &Table{Index: IndexInhabitation}
	for zoneID, value := range zonalMeans {
		table.Rows = append(table.Rows, Row{ZoneID: zoneID, Result: value})
	}
	table.sortRows()

	return table, nil
}
