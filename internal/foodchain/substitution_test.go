package foodchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/foodchain-go/internal/trait"
)

func TestFunctionalSubstitutionAlternativePresence(t *testing.T) {
	calc := NewFunctionalSubstitution()
	require.Equal(t, IndexSubstitution, calc.Name())

	// One alternative-class observation in zone Z.
	snap := snapshotOf(
		obs("Z", "fieldmouse", 1, trait.DietPrey, trait.TierD3, trait.SubstitutionAlternative),
	)

	table, err := calc.Calculate(context.Background(), snap)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	row := table.Rows[0]
	assert.InDelta(t, 1, row.Count(ColAlternative), 1e-12)
	assert.InDelta(t, 1.0, row.Result, 1e-12)
}

func TestFunctionalSubstitutionClassCounts(t *testing.T) {
	calc := NewFunctionalSubstitution()

	snap := snapshotOf(
		obs("Z", "stork", 1, trait.DietNormal, trait.TierD1, trait.SubstitutionThreatened),
		obs("Z", "nutria", 1, trait.DietPrey, trait.TierD3, trait.SubstitutionAlienAlternative),
		obs("Z", "crow", 1, trait.DietNormal, trait.TierD2, trait.SubstitutionNormal),
		obs("Z", "sparrow", 1, trait.DietNormal, trait.TierD2, trait.SubstitutionNormal),
	)

	table, err := calc.Calculate(context.Background(), snap)
	require.NoError(t, err)

	row := table.RowByZone("Z")
	require.NotNil(t, row)
	assert.InDelta(t, 1, row.Count(ColThreatened), 1e-12)
	assert.InDelta(t, 1, row.Count(ColAlien), 1e-12)
	assert.InDelta(t, 0, row.Count(ColAlternative), 1e-12)
	assert.InDelta(t, 2, row.Count(ColNormal), 1e-12)
	assert.InDelta(t, 0.0, row.Result, 1e-12, "no alternative class present")
}

func TestFunctionalSubstitutionIgnoresTraitlessRecords(t *testing.T) {
	calc := NewFunctionalSubstitution()

	snap := snapshotOf(
		obs("Z", "crow", 1, trait.DietNormal, trait.TierD2, trait.SubstitutionNormal),
	)
	observations := snap.Observations()
	observations[0].Traits = nil
	snap = snapshotOf(observations...)

	table, err := calc.Calculate(context.Background(), snap)
	require.NoError(t, err)

	row := table.RowByZone("Z")
	require.NotNil(t, row)
	for _, column := range table.CountColumns {
		assert.InDelta(t, 0, row.Count(column), 1e-12)
	}
	assert.InDelta(t, 0.0, row.Result, 1e-12)
}
