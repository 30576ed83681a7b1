package survey

import (
	"context"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/foodchain"
	"github.com/tphakala/foodchain-go/internal/geo"
	"github.com/tphakala/foodchain-go/internal/observability/metrics"
	"github.com/tphakala/foodchain-go/internal/trait"
)

func testTraitTable(t *testing.T) *trait.Table {
	t.Helper()
	table, err := trait.NewTable([]trait.SpeciesTrait{
		{Species: "vole", Diet: trait.DietPrey, Trophic: trait.TierD3, Substitution: trait.SubstitutionNormal},
		{Species: "owl", Diet: trait.DietNormal, Trophic: trait.TierD1, Substitution: trait.SubstitutionThreatened},
	})
	require.NoError(t, err)
	return table
}

func TestNewEnricherRequiresJoiner(t *testing.T) {
	_, err := NewEnricher(nil, testTraitTable(t), PolicyDrop)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryEnrichment))
}

func TestEnrichJoinsTraitsAndZones(t *testing.T) {
	joiner := geo.NewPrejoined([]string{"Z1", "Z1", "Z2"})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "3"},
		{ID: "p2", Species: "owl", RawCount: "1"},
		{ID: "p3", Species: "heron", RawCount: "2"}, // no trait entry
	}

	snap, err := enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)
	require.Equal(t, 3, snap.Len())

	observations := snap.Observations()

	assert.Equal(t, "Z1", observations[0].ZoneID)
	require.NotNil(t, observations[0].Traits)
	assert.True(t, observations[0].Traits.Diet.IsPrey())
	assert.InDelta(t, 3, observations[0].Count, 1e-12)

	require.NotNil(t, observations[1].Traits)
	assert.Equal(t, trait.SubstitutionThreatened, observations[1].Traits.Substitution)

	// Species without a reference entry carry nil traits but stay in the snapshot.
	assert.Nil(t, observations[2].Traits)
	assert.Equal(t, "Z2", observations[2].ZoneID)
}

func TestEnrichDropPolicyExcludesPlaceholders(t *testing.T) {
	joiner := geo.NewPrejoined([]string{"Z1", "Z1"})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "2"},
		{ID: "p2", Species: " ", RawCount: "1"},
	}

	snap, err := enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, "vole", snap.Observations()[0].Species)
}

func TestEnrichFallbackPolicyRetainsPlaceholders(t *testing.T) {
	joiner := geo.NewPrejoined([]string{"Z1"})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyFallback)
	require.NoError(t, err)

	points := []Point{{ID: "p1", Species: "", RawCount: "abc"}}

	snap, err := enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())

	obs := snap.Observations()[0]
	assert.Equal(t, PlaceholderName, obs.Species)
	require.NotNil(t, obs.Traits)
	assert.Equal(t, trait.DietNormal, obs.Traits.Diet)
	assert.Equal(t, trait.TierD3, obs.Traits.Trophic)
	assert.Equal(t, trait.SubstitutionNormal, obs.Traits.Substitution)
	// Malformed count coerced to one.
	assert.InDelta(t, 1, obs.Count, 1e-12)
}

func TestEnrichKeepsUnmatchedPointsOutOfGrouping(t *testing.T) {
	// A point outside every zone stays in the snapshot with an empty zone
	// ID, and zone grouping skips it.
	joiner := geo.NewPrejoined([]string{"Z1", ""})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "1"},
		{ID: "p2", Species: "owl", RawCount: "1"},
	}

	snap, err := enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)
	require.Equal(t, 2, snap.Len())

	grouped := snap.GroupByZone()
	require.Len(t, grouped, 1)
	assert.Len(t, grouped["Z1"], 1)
}

func TestEnrichEmptyInputSucceeds(t *testing.T) {
	enricher, err := NewEnricher(geo.NewPrejoined(nil), testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	snap, err := enricher.Enrich(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Len())
}

func TestEnrichJoinerLengthMismatch(t *testing.T) {
	// Joiner prepared for one point, two points supplied.
	enricher, err := NewEnricher(geo.NewPrejoined([]string{"Z1"}), testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "1"},
		{ID: "p2", Species: "owl", RawCount: "1"},
	}

	_, err = enricher.Enrich(context.Background(), points, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategorySpatialJoin))
}

func TestEnrichNonFiniteAndZeroCountsBecomeOne(t *testing.T) {
	// ParseFloat accepts "NaN" and "Inf" spellings; none of them may
	// survive enrichment, and neither may a zero count.
	joiner := geo.NewPrejoined([]string{"Z1", "Z1", "Z1", "Z1"})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyDrop)
	require.NoError(t, err)

	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "NaN"},
		{ID: "p2", Species: "vole", RawCount: "Inf"},
		{ID: "p3", Species: "owl", RawCount: "0"},
		{ID: "p4", Species: "owl", RawCount: "+Inf"},
	}

	snap, err := enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)
	require.Equal(t, 4, snap.Len())

	for _, obs := range snap.Observations() {
		assert.InDelta(t, 1, obs.Count, 1e-12)
	}

	// The prey ratio stays finite and in range for a zone built entirely
	// from coerced counts.
	table, err := foodchain.NewPreyRatio().Calculate(context.Background(), snap)
	require.NoError(t, err)

	row := table.RowByZone("Z1")
	require.NotNil(t, row)
	assert.False(t, math.IsNaN(row.Result))
	assert.GreaterOrEqual(t, row.Result, 0.0)
	assert.LessOrEqual(t, row.Result, 1.0)
	assert.InDelta(t, 0.5, row.Result, 1e-12)
	assert.GreaterOrEqual(t, row.Count(foodchain.ColTotalCount), 1.0)
}

// counterValue reads one counter from a gathered registry; an empty label
// name matches unlabelled counters.
func counterValue(t *testing.T, registry *prometheus.Registry, name, labelName, labelValue string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelName == "" {
				return metric.GetCounter().GetValue()
			}
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == labelName && pair.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestEnrichRecordsEnrichmentMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	pm, err := metrics.NewPipelineMetrics(registry)
	require.NoError(t, err)

	joiner := geo.NewPrejoined([]string{"Z1", "Z1", "Z1", ""})
	enricher, err := NewEnricher(joiner, testTraitTable(t), PolicyFallback, WithMetrics(pm))
	require.NoError(t, err)

	// p1 matches a trait row, p2 and p4 have no trait entry, p3 is a
	// retained placeholder with a malformed count, p4 is outside every zone.
	points := []Point{
		{ID: "p1", Species: "vole", RawCount: "2"},
		{ID: "p2", Species: "heron", RawCount: "1"},
		{ID: "p3", Species: "", RawCount: "bad"},
		{ID: "p4", Species: "heron", RawCount: "1"},
	}

	_, err = enricher.Enrich(context.Background(), points, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1, counterValue(t, registry, "pipeline_observations_enriched_total", "status", "matched"), 1e-12)
	assert.InDelta(t, 2, counterValue(t, registry, "pipeline_observations_enriched_total", "status", "unmatched-trait"), 1e-12)
	assert.InDelta(t, 1, counterValue(t, registry, "pipeline_observations_enriched_total", "status", "placeholder-fallback"), 1e-12)
	assert.InDelta(t, 1, counterValue(t, registry, "pipeline_placeholder_species_total", "policy", "fallback"), 1e-12)
	assert.InDelta(t, 1, counterValue(t, registry, "pipeline_counts_coerced_total", "", ""), 1e-12)
	assert.InDelta(t, 1, counterValue(t, registry, "pipeline_unmatched_points_total", "", ""), 1e-12)
}

func TestEnrichNilTraitTable(t *testing.T) {
	enricher, err := NewEnricher(geo.NewPrejoined([]string{"Z1"}), nil, PolicyDrop)
	require.NoError(t, err)

	snap, err := enricher.Enrich(context.Background(), []Point{
		{ID: "p1", Species: "vole", RawCount: "1"},
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, snap.Len())
	assert.Nil(t, snap.Observations()[0].Traits)
}
