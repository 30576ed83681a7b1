package foodchain

import (
	"context"
	"log/slog"

	"github.com/tphakala/foodchain-go/internal/logging"
	"github.com/tphakala/foodchain-go/internal/observation"
)

// Index identifiers, matching the output column prefixes.
const (
	IndexPreyRatio       = "F1"
	IndexDiversity       = "F2"
	IndexTrophicCoverage = "F3"
	IndexConnection      = "F4"
	IndexSubstitution    = "F5"
	IndexInhabitation    = "F6"
)

// Output count column names.
const (
	ColPreyCount      = "F1_PREY_N"
	ColTotalCount     = "F1_TOTAL_N"
	ColDiversityPrey  = "F2_PREY_N"
	ColShannon        = "F2_SHANNON"
	ColTierD1         = "F3_D1_N"
	ColTierD2         = "F3_D2_N"
	ColTierD3         = "F3_D3_N"
	ColConnectionPrey = "F4_PREY_N"
	ColThreatened     = "F5_THRT_N"
	ColAlien          = "F5_ALIEN_N"
	ColAlternative    = "F5_ALT_N"
	ColNormal         = "F5_NORM_N"
)

// DefaultResult fills zones absent from an index's aggregation.
const DefaultResult = 0.0

// Calculator computes one index from an enriched snapshot. Calculators
// are pure with respect to the snapshot and static configuration, so any
// number of them may run concurrently on the same snapshot.
type Calculator interface {
	Name() string
	Calculate(ctx context.Context, snap *observation.Snapshot) (*Table, error)
}

// serviceLogger returns the foodchain service logger, falling back to the
// default logger when logging has not been initialized (tests).
func serviceLogger() *slog.Logger {
	if logger := logging.ForService("foodchain"); logger != nil {
		return logger
	}
	return slog.Default().With("service", "foodchain")
}
