package cmd

import (
	"context"
	"fmt"

	"location-manager/core/compare"
	"location-manager/core/config"
	"location-manager/core/fetch"
	"location-manager/core/logger"
	"location-manager/core/planner"
	"location-manager/core/snapshot"
	"location-manager/core/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for compare command
	compareEntityID string
	maxResultsShown int
)

// compareCmd loads both snapshots and reports field-level changes without
// starting the server.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the two location snapshots and report changes",
	Long: `Compare the configured older and newer snapshots field by field.

Reports which locations changed between versions and which fields a
reviewer should look at.

Examples:
  # Full report across all regions
  compare

  # Single entity
  compare --entity 5`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareEntityID, "entity", "", "Compare a single entity id instead of the full snapshot")
	compareCmd.Flags().IntVar(&maxResultsShown, "max-show", 10, "Maximum number of changed entities to log in detail")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	store := snapshot.NewStore(fetch.NewHTTPClient(cfg.Snapshot.TimeoutSeconds), l)
	comparator := compare.New(store, cfg.Snapshot.OlderLabel, cfg.Snapshot.NewerLabel, compare.DefaultFields)
	pl := planner.New(comparator, nil)

	l.Info("Loading snapshots",
		zap.String("older", cfg.Snapshot.OlderLabel),
		zap.String("newer", cfg.Snapshot.NewerLabel),
	)
	for _, label := range cfg.Snapshot.Labels() {
		if err := store.Load(ctx, label, cfg.Snapshot.Sources(label)); err != nil {
			return fmt.Errorf("failed to load snapshot %s: %w", label, err)
		}
	}

	// Single entity mode
	if compareEntityID != "" {
		result, err := comparator.CompareEntity(compareEntityID)
		if err != nil {
			return fmt.Errorf("failed to compare entity %s: %w", compareEntityID, err)
		}
		printEntityResult(l, result)
		return nil
	}

	// Full report: compare every entity present in the newer snapshot.
	records, err := store.CombinedGDOSRecords(cfg.Snapshot.NewerLabel)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	var reviewed int
	for _, record := range records {
		id := utils.ToString(record["id"])
		if id == "" {
			continue
		}
		result, err := comparator.CompareEntity(id)
		if err != nil {
			l.Warn("Comparison failed", zap.String("entity_id", id), zap.Error(err))
			continue
		}
		if result.Recommendation.Action != compare.ActionReview {
			continue
		}
		reviewed++
		if reviewed <= maxResultsShown {
			printEntityResult(l, result)
		}
	}
	if reviewed > maxResultsShown {
		l.Info("Additional changed entities not shown", zap.Int("count", reviewed-maxResultsShown))
	}

	stats, err := pl.Stats()
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}
	l.Info("Comparison summary",
		zap.Int("entities_current", stats.CurrentEntities),
		zap.Int("entities_prior", stats.PriorEntities),
		zap.Int("needing_review", stats.NeedingReview),
		zap.Any("field_changes", stats.FieldChangeCounts),
	)

	return nil
}

// printEntityResult logs the changed fields of one comparison result.
func printEntityResult(l *zap.Logger, result *compare.Result) {
	l.Info("Entity comparison",
		zap.String("entity_id", result.EntityID),
		zap.String("region", result.Region),
		zap.String("action", result.Recommendation.Action),
		zap.Strings("review_fields", result.Recommendation.Fields),
	)
	for _, name := range result.Recommendation.Fields {
		change := result.Fields[name]
		l.Info("Field change",
			zap.String("entity_id", result.EntityID),
			zap.String("field", name),
			zap.Bool("gdos_changed", change.GDOSChanged),
			zap.Bool("zesty_changed", change.ZestyChanged),
			zap.Any("gdos_old", change.GDOSOld),
			zap.Any("gdos_new", change.GDOSNew),
			zap.Any("zesty_old", change.ZestyOld),
			zap.Any("zesty_new", change.ZestyNew),
		)
	}
}
