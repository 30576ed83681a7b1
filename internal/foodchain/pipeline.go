package foodchain

import (
	"context"
	"log/slog"
	"time"

	"github.com/tphakala/foodchain-go/internal/errors"
	"github.com/tphakala/foodchain-go/internal/observability/metrics"
	"github.com/tphakala/foodchain-go/internal/observation"
	"github.com/tphakala/foodchain-go/internal/zone"
)

// Pipeline runs a set of index calculators against one enriched snapshot
// and joins every result onto the zone universe. Calculators are
// independent and idempotent; the snapshot is never mutated.
type Pipeline struct {
	universe    *zone.Universe
	calculators []Calculator
	metrics     *metrics.PipelineMetrics
	logger      *slog.Logger
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineMetrics attaches pipeline metrics.
func WithPipelineMetrics(m *metrics.PipelineMetrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// NewPipeline creates a Pipeline over the given universe and calculators.
func NewPipeline(universe *zone.Universe, calculators []Calculator, opts ...PipelineOption) (*Pipeline, error) {
	if universe == nil || universe.Len() == 0 {
		return nil, errors.Newf("zone universe is required").
			Category(errors.CategoryValidation).
			Build()
	}
	if len(calculators) == 0 {
		return nil, errors.Newf("at least one calculator is required").
			Category(errors.CategoryValidation).
			Build()
	}

	p := &Pipeline{
		universe:    universe,
		calculators: calculators,
		logger:      serviceLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run computes every configured index from the snapshot and returns the
// joined tables keyed by index name. Each output table has exactly one
// row per universe zone.
func (p *Pipeline) Run(ctx context.Context, snap *observation.Snapshot) (map[string]*Table, error) {
	results := make(map[string]*Table, len(p.calculators))

	for _, calc := range p.calculators {
		start := time.Now()
		table, err := calc.Calculate(ctx, snap)
		if err != nil {
			p.metrics.RecordIndexCalculation(calc.Name(), "error", time.Since(start))
			return nil, errors.New(err).
				Category(errors.CategoryIndexCompute).
				Context("index", calc.Name()).
				Build()
		}
		p.metrics.RecordIndexCalculation(calc.Name(), "success", time.Since(start))
		p.metrics.RecordIndexZoneRows(calc.Name(), len(table.Rows))

		joined := Join(p.universe, table, DefaultResult)
		results[calc.Name()] = joined

		p.logger.Info("index calculated",
			"index", calc.Name(),
			"run_id", snap.RunID(),
			"grouped_zones", len(table.Rows),
			"output_rows", len(joined.Rows))
	}

	return results, nil
}
