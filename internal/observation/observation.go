// Package observation holds the enriched survey records shared by all
// index calculators. A Snapshot is produced once per enrichment run and
// treated as immutable afterwards.
package observation

import (
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/foodchain-go/internal/trait"
)

// Observation is a single enriched survey record: one surveyed
// individual-or-group with its zone membership and species traits attached.
type Observation struct {
	// ZoneID is empty when the survey point fell outside every zone.
	// Such records are excluded from all grouping.
	ZoneID string

	// Species is the (possibly normalized) species name.
	Species string

	// Count is the coerced individual count, always >= 1.
	Count float64

	// Traits is nil when the species has no reference table match.
	Traits *trait.SpeciesTrait
}

// HasZone reports whether the observation was matched to a zone.
func (o *Observation) HasZone() bool {
	return o.ZoneID != ""
}

// IsPrey reports whether the observation carries a prey-category trait.
func (o *Observation) IsPrey() bool {
	return o.Traits != nil && o.Traits.Diet.IsPrey()
}

// Snapshot is the immutable result of one enrichment run. All calculators
// computed from the same run consume the same snapshot; none may trigger
// re-enrichment.
type Snapshot struct {
	runID        uuid.UUID
	createdAt    time.Time
	observations []Observation
}

// NewSnapshot copies the given observations into a new immutable snapshot.
func NewSnapshot(observations []Observation) *Snapshot {
	copied := make([]Observation, len(observations))
	copy(copied, observations)
	return &Snapshot{
		runID:        uuid.New(),
		createdAt:    time.Now(),
		observations: copied,
	}
}

// RunID identifies the enrichment run that produced this snapshot.
func (s *Snapshot) RunID() uuid.UUID {
	return s.runID
}

// CreatedAt returns when the snapshot was produced.
func (s *Snapshot) CreatedAt() time.Time {
	return s.createdAt
}

// Len returns the number of observations in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.observations)
}

// Observations returns a copy of the snapshot's records.
func (s *Snapshot) Observations() []Observation {
	if s == nil {
		return nil
	}
	copied := make([]Observation, len(s.observations))
	copy(copied, s.observations)
	return copied
}

// GroupByZone partitions the snapshot by zone ID. Observations without a
// zone are skipped; a zone never appears with an empty group.
func (s *Snapshot) GroupByZone() map[string][]Observation {
	if s == nil {
		return nil
	}
	groups := make(map[string][]Observation)
	for _, obs := range s.observations {
		if !obs.HasZone() {
			continue
		}
		groups[obs.ZoneID] = append(groups[obs.ZoneID], obs)
	}
	return groups
}
