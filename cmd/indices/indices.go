// Package indices implements the "indices" subcommand: the full pipeline
// from input tables to joined per-zone index tables.
package indices

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/tphakala/foodchain-go/internal/conf"
	"github.com/tphakala/foodchain-go/internal/datastore"
	"github.com/tphakala/foodchain-go/internal/foodchain"
	"github.com/tphakala/foodchain-go/internal/geo"
	"github.com/tphakala/foodchain-go/internal/loader"
	"github.com/tphakala/foodchain-go/internal/logging"
	"github.com/tphakala/foodchain-go/internal/observability/metrics"
	"github.com/tphakala/foodchain-go/internal/survey"
	"github.com/tphakala/foodchain-go/internal/zone"
)

// Command creates the indices command: compute every configured index
// from the input tables and write the joined per-zone results.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Compute food-chain resource indices",
		Long: `Compute the food-chain resource indices (F1 prey ratio, F2 diversity,
F3 trophic coverage, F4 connection presence, F5 functional substitution)
for every zone in the universe and write one table per index.

The inhabitation index (F6) depends on external distribution-model and
zonal-statistics services and is not computed by this command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndices(cmd.Context(), settings)
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the indices command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Input.ZoneFile, "zones", settings.Input.ZoneFile, "Path to the zone universe table (CSV)")
	cmd.Flags().StringVar(&settings.Input.SurveyFile, "survey", settings.Input.SurveyFile, "Path to the survey point table (CSV, pre-joined zone column)")
	cmd.Flags().StringVar(&settings.Input.TraitFile, "traits", settings.Input.TraitFile, "Path to the species trait table (CSV)")
	cmd.Flags().StringVarP(&settings.Output.CSV.Path, "output", "o", settings.Output.CSV.Path, "Output directory for index tables")
}

// runIndices executes the full pipeline once.
func runIndices(ctx context.Context, settings *conf.Settings) error {
	logger := logging.ForService("indices")

	zoneRecords, err := loader.LoadZones(settings.Input.ZoneFile)
	if err != nil {
		return fmt.Errorf("loading zone universe: %w", err)
	}
	universe, err := zone.NewUniverse(zoneRecords)
	if err != nil {
		return err
	}

	points, err := loader.LoadSurveyPoints(settings.Input.SurveyFile)
	if err != nil {
		return fmt.Errorf("loading survey points: %w", err)
	}

	traits, err := loader.LoadTraitTable(settings.Input.TraitFile, settings.Input.TraitEncoding)
	if err != nil {
		return fmt.Errorf("loading trait table: %w", err)
	}

	policy, err := survey.ParsePlaceholderPolicy(settings.Enrichment.PlaceholderPolicy)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	pipelineMetrics, err := metrics.NewPipelineMetrics(registry)
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}

	zoneIDs := make([]string, len(points))
	for i := range points {
		zoneIDs[i] = points[i].ZoneID
	}

	enricher, err := survey.NewEnricher(geo.NewPrejoined(zoneIDs), traits, policy,
		survey.WithMetrics(pipelineMetrics))
	if err != nil {
		return err
	}

	snapshot, err := enricher.Enrich(ctx, points, nil)
	if err != nil {
		return err
	}

	trophic, err := foodchain.NewTrophicCoverage(settings.Indices.TrophicScores)
	if err != nil {
		return err
	}

	calculators := []foodchain.Calculator{
		foodchain.NewPreyRatio(),
		foodchain.NewShannonDiversity(),
		trophic,
		foodchain.NewConnectionPresence(),
		foodchain.NewFunctionalSubstitution(),
	}

	pipeline, err := foodchain.NewPipeline(universe, calculators,
		foodchain.WithPipelineMetrics(pipelineMetrics))
	if err != nil {
		return err
	}

	results, err := pipeline.Run(ctx, snapshot)
	if err != nil {
		return err
	}

	return writeResults(ctx, settings, snapshot.RunID().String(), results, logger)
}

// writeResults exports every index table to the configured outputs.
func writeResults(ctx context.Context, settings *conf.Settings, runID string, results map[string]*foodchain.Table, logger *slog.Logger) error {
	indexNames := make([]string, 0, len(results))
	for name := range results {
		indexNames = append(indexNames, name)
	}
	sort.Strings(indexNames)

	if settings.Output.CSV.Enabled {
		for _, name := range indexNames {
			path, err := loader.WriteTableCSV(results[name], settings.Output.CSV.Path)
			if err != nil {
				return err
			}
			if logger != nil {
				logger.Info("index table written", "index", name, "path", path)
			}
		}
	}

	if store := datastore.New(settings); store != nil {
		if err := store.Open(); err != nil {
			return err
		}
		defer store.Close()

		for _, name := range indexNames {
			if err := store.SaveTable(ctx, runID, results[name]); err != nil {
				return err
			}
		}
	}

	return nil
}
