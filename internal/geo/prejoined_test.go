package geo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrejoinedAssignZones(t *testing.T) {
	joiner := NewPrejoined([]string{"Z1", "", "Z2"})

	points := make([]PointLocation, 3)
	assigned, err := joiner.AssignZones(context.Background(), points, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Z1", "", "Z2"}, assigned)
}

func TestPrejoinedLengthMismatch(t *testing.T) {
	joiner := NewPrejoined([]string{"Z1"})

	_, err := joiner.AssignZones(context.Background(), make([]PointLocation, 2), nil)
	require.Error(t, err)
}

func TestPrejoinedCopiesInput(t *testing.T) {
	ids := []string{"Z1"}
	joiner := NewPrejoined(ids)
	ids[0] = "mutated"

	assigned, err := joiner.AssignZones(context.Background(), make([]PointLocation, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, "Z1", assigned[0])
}
