// Package survey turns raw survey points into enriched observations:
// zone membership via the delegated spatial joiner, species traits from
// the reference table, placeholder normalization and count coercion.
package survey

import (
	"math"
	"strconv"
	"strings"

	"github.com/tphakala/foodchain-go/internal/errors"
)

// Point is one raw survey record. RawCount is kept textual because field
// surveys routinely deliver malformed count values.
type Point struct {
	ID        string
	Latitude  float64
	Longitude float64
	Species   string
	RawCount  string

	// ZoneID is filled when the survey export was already spatially
	// joined upstream; see geo.Prejoined.
	ZoneID string
}

// PlaceholderName is the species name given to retained placeholder records.
const PlaceholderName = "Noname"

// PlaceholderPolicy decides what happens to observations whose species
// name is the blank placeholder. Exactly one policy is in effect per run.
type PlaceholderPolicy int

const (
	// PolicyDrop excludes placeholder observations entirely.
	PolicyDrop PlaceholderPolicy = iota
	// PolicyFallback keeps placeholder observations with the fallback
	// trait tuple and the PlaceholderName species name.
	PolicyFallback
)

// ParsePlaceholderPolicy converts a configuration string into a policy.
func ParsePlaceholderPolicy(value string) (PlaceholderPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "drop":
		return PolicyDrop, nil
	case "fallback":
		return PolicyFallback, nil
	default:
		return PolicyDrop, errors.Newf("unknown placeholder policy: %q", value).
			Category(errors.CategoryConfiguration).
			Context("policy", value).
			Build()
	}
}

func (p PlaceholderPolicy) String() string {
	if p == PolicyFallback {
		return "fallback"
	}
	return "drop"
}

// IsPlaceholder reports whether a species name denotes an unidentified
// individual. Survey exports use a single blank character, but any
// whitespace-only name is treated the same.
func IsPlaceholder(species string) bool {
	return strings.TrimSpace(species) == ""
}

// CoerceCount parses a raw count field. Any parse failure, absence, or
// value that is not a finite positive number yields 1: an observation
// record always represents at least one individual even when the count
// field is malformed. ParseFloat accepts "NaN" and "Inf" spellings, so
// finiteness is checked explicitly; letting either through would poison
// every downstream zone sum. The boolean reports whether coercion was
// applied.
func CoerceCount(raw string) (float64, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 1, true
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 1, true
	}
	return value, false
}
