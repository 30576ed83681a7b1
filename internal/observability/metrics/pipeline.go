// Package metrics provides Prometheus metrics for the scoring pipeline
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics contains Prometheus metrics for enrichment and index calculation
type PipelineMetrics struct {
	registry *prometheus.Registry

	// Enrichment metrics
	observationsEnrichedTotal *prometheus.CounterVec
	placeholdersTotal         *prometheus.CounterVec
	countsCoercedTotal        prometheus.Counter
	unmatchedPointsTotal      prometheus.Counter
	enrichmentDuration        prometheus.Histogram

	// Index calculation metrics
	indexCalculationsTotal   *prometheus.CounterVec
	indexCalculationDuration *prometheus.HistogramVec
	indexZoneRowsHist        *prometheus.HistogramVec

	// collectors is a slice of all collectors for easier iteration
	collectors []prometheus.Collector
}

// NewPipelineMetrics creates and registers pipeline metrics on the given registry
func NewPipelineMetrics(registry *prometheus.Registry) (*PipelineMetrics, error) {
	m := &PipelineMetrics{registry: registry}
	if err := m.initMetrics(); err != nil {
		return nil, err
	}
	for _, collector := range m.collectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// initMetrics initializes all Prometheus metrics
func (m *PipelineMetrics) initMetrics() error {
	m.observationsEnrichedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_observations_enriched_total",
			Help: "Total number of survey points enriched into observations",
		},
		[]string{"status"}, // status: matched, unmatched-trait, placeholder-fallback
	)

	m.placeholdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_placeholder_species_total",
			Help: "Total number of placeholder species names handled",
		},
		[]string{"policy"}, // policy: drop, fallback
	)

	m.countsCoercedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_counts_coerced_total",
		Help: "Total number of malformed individual counts coerced to 1",
	})

	m.unmatchedPointsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_unmatched_points_total",
		Help: "Total number of survey points outside every zone",
	})

	m.enrichmentDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipeline_enrichment_duration_seconds",
		Help:    "Time taken for one enrichment run",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~32s
	})

	m.indexCalculationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_index_calculations_total",
			Help: "Total number of index calculations",
		},
		[]string{"index", "status"}, // status: success, error
	)

	m.indexCalculationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_index_calculation_duration_seconds",
			Help:    "Time taken for one index calculation",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		},
		[]string{"index"},
	)

	m.indexZoneRowsHist = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_index_zone_rows",
			Help:    "Number of zone rows produced per index calculation before joining",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"index"},
	)

	m.collectors = []prometheus.Collector{
		m.observationsEnrichedTotal,
		m.placeholdersTotal,
		m.countsCoercedTotal,
		m.unmatchedPointsTotal,
		m.enrichmentDuration,
		m.indexCalculationsTotal,
		m.indexCalculationDuration,
		m.indexZoneRowsHist,
	}

	return nil
}

// RecordObservationEnriched increments the enriched observation counter
func (m *PipelineMetrics) RecordObservationEnriched(status string) {
	if m == nil {
		return
	}
	m.observationsEnrichedTotal.WithLabelValues(status).Inc()
}

// RecordPlaceholder increments the placeholder handling counter
func (m *PipelineMetrics) RecordPlaceholder(policy string) {
	if m == nil {
		return
	}
	m.placeholdersTotal.WithLabelValues(policy).Inc()
}

// RecordCountCoerced increments the malformed count coercion counter
func (m *PipelineMetrics) RecordCountCoerced() {
	if m == nil {
		return
	}
	m.countsCoercedTotal.Inc()
}

// RecordUnmatchedPoint increments the out-of-zone point counter
func (m *PipelineMetrics) RecordUnmatchedPoint() {
	if m == nil {
		return
	}
	m.unmatchedPointsTotal.Inc()
}

// RecordEnrichmentDuration records the duration of an enrichment run
func (m *PipelineMetrics) RecordEnrichmentDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.enrichmentDuration.Observe(duration.Seconds())
}

// RecordIndexCalculation records the outcome and duration of an index calculation
func (m *PipelineMetrics) RecordIndexCalculation(index, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.indexCalculationsTotal.WithLabelValues(index, status).Inc()
	m.indexCalculationDuration.WithLabelValues(index).Observe(duration.Seconds())
}

// RecordIndexZoneRows records the number of grouped zone rows for an index
func (m *PipelineMetrics) RecordIndexZoneRows(index string, rows int) {
	if m == nil {
		return
	}
	m.indexZoneRowsHist.WithLabelValues(index).Observe(float64(rows))
}
