package survey

import (
	"context"
	"log/slog"
	"time"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/geo"
	"github.com/tphakala/foodchain-go/internal/logging"
	"github.com/tphakala/foodchain-go/internal/observability/metrics"
	"github.com/tphakala/foodchain-go/internal/observation"
	"github.com/tphakala/foodchain-go/internal/trait"
)

// Enricher produces the immutable observation snapshot consumed by all
// index calculators. Enrichment runs once per batch; calculators never
// trigger it again.
type Enricher struct {
	joiner  geo.SpatialJoiner
	traits  *trait.Table
	policy  PlaceholderPolicy
	metrics *metrics.PipelineMetrics
	logger  *slog.Logger
}

// EnricherOption customizes an Enricher.
type EnricherOption func(*Enricher)

// WithMetrics attaches pipeline metrics to the enricher.
func WithMetrics(m *metrics.PipelineMetrics) EnricherOption {
	return func(e *Enricher) {
		e.metrics = m
	}
}

// WithLogger overrides the enricher's logger.
func WithLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnricher creates an Enricher. The spatial joiner is required; the
// trait table may be nil, in which case every species carries nil traits.
func NewEnricher(joiner geo.SpatialJoiner, traits *trait.Table, policy PlaceholderPolicy, opts ...EnricherOption) (*Enricher, error) {
	if joiner == nil {
		return nil, errors.Newf("spatial joiner is required").
			Category(errors.CategoryEnrichment).
			Build()
	}

	e := &Enricher{
		joiner: joiner,
		traits: traits,
		policy: policy,
		logger: logging.ForService("survey"),
	}
	if e.logger == nil {
		e.logger = slog.Default().With("service", "survey")
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Policy returns the placeholder policy in effect for this enricher.
func (e *Enricher) Policy() PlaceholderPolicy {
	return e.policy
}

// Enrich joins every survey point to its containing zone and to the
// species trait table, applies the placeholder policy and coerces counts.
// Zero survey points, or a spatial join matching nothing, is still a
// successful run and yields an empty snapshot.
func (e *Enricher) Enrich(ctx context.Context, points []Point, zones []geo.ZoneGeometry) (*observation.Snapshot, error) {
	start := time.Now()

	locations := make([]geo.PointLocation, len(points))
	for i, p := range points {
		locations[i] = geo.PointLocation{Latitude: p.Latitude, Longitude: p.Longitude}
	}

	zoneIDs, err := e.joiner.AssignZones(ctx, locations, zones)
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySpatialJoin).
			Context("points", len(points)).
			Context("zones", len(zones)).
			Build()
	}
	if len(zoneIDs) != len(points) {
		return nil, errors.Newf("spatial joiner returned %d zone IDs for %d points", len(zoneIDs), len(points)).
			Category(errors.CategorySpatialJoin).
			Build()
	}

	observations := make([]observation.Observation, 0, len(points))
	for i, p := range points {
		obs, keep := e.enrichOne(p, zoneIDs[i])
		if keep {
			observations = append(observations, obs)
		}
	}

	snapshot := observation.NewSnapshot(observations)
	e.metrics.RecordEnrichmentDuration(time.Since(start))
	e.logger.Info("enrichment run complete",
		"run_id", snapshot.RunID(),
		"points", len(points),
		"observations", snapshot.Len(),
		"policy", e.policy.String())

	return snapshot, nil
}

// enrichOne applies trait joining, placeholder policy and count coercion
// to a single point. The second return value is false when the record is
// dropped by the placeholder policy.
func (e *Enricher) enrichOne(p Point, zoneID string) (observation.Observation, bool) {
	if zoneID == "" {
		// Points outside every zone stay in the snapshot with an empty
		// zone ID and are skipped by all grouping.
		e.metrics.RecordUnmatchedPoint()
		e.logger.Debug("survey point outside all zones", "point_id", p.ID)
	}

	species := p.Species
	var traits *trait.SpeciesTrait

	if IsPlaceholder(species) {
		e.metrics.RecordPlaceholder(e.policy.String())
		if e.policy == PolicyDrop {
			return observation.Observation{}, false
		}
		species = PlaceholderName
		fallback := trait.Fallback()
		fallback.Species = PlaceholderName
		traits = &fallback
		e.metrics.RecordObservationEnriched("placeholder-fallback")
	} else if t, ok := e.traits.Lookup(species); ok {
		traits = &t
		e.metrics.RecordObservationEnriched("matched")
	} else {
		// Unmatched species carry nil traits; degraded data, not an error.
		e.metrics.RecordObservationEnriched("unmatched-trait")
	}

	count, coerced := CoerceCount(p.RawCount)
	if coerced {
		e.metrics.RecordCountCoerced()
		e.logger.Debug("coerced malformed count", "point_id", p.ID, "raw", p.RawCount)
	}

	return observation.Observation{
		ZoneID:  zoneID,
		Species: species,
		Count:   count,
		Traits:  traits,
	}, true
}
