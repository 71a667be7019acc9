package notionledger

import (
	"context"
	"fmt"

	"github.com/dvloznov/ledger-insights/internal/classify"
	"github.com/dvloznov/ledger-insights/internal/logger"
)

// BackfillResult reports the outcome of a batch category backfill.
type BackfillResult struct {
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
	Skipped int `json:"skipped"`
}

// BackfillCategories walks every record in the store and writes a category
// for those still uncategorized, using the supplied classify function.
// Per-record update failures are counted and logged, never fatal; only a
// failed fetch aborts the batch. With dryRun set, no mutation is issued.
func BackfillCategories(ctx context.Context, src RecordSource, classifyFn func(description string) string, dryRun bool) (BackfillResult, error) {
	log := logger.FromContext(ctx)

	var result BackfillResult

	records, err := src.FetchAll(ctx, Query{})
	if err != nil {
		return result, fmt.Errorf("BackfillCategories: %w", err)
	}

	log.Info().
		Int("record_count", len(records)).
		Bool("dry_run", dryRun).
		Msg("Starting category backfill")

	for _, rec := range records {
		if rec.StoredCategory != "" && rec.StoredCategory != classify.Uncategorized {
			result.Skipped++
			continue
		}

		label := classifyFn(rec.Description)
		if label == "" || label == classify.Uncategorized {
			result.Skipped++
			continue
		}

		if dryRun {
			log.Info().
				Str("record_id", rec.ID).
				Str("category", label).
				Msg("[DRY RUN] Would update record category")
			result.Updated++
			continue
		}

		if err := src.UpdateCategory(ctx, rec.ID, label); err != nil {
			log.Warn().
				Err(err).
				Str("record_id", rec.ID).
				Str("category", label).
				Msg("Failed to update record category")
			result.Errors++
			continue
		}

		log.Info().
			Str("record_id", rec.ID).
			Str("category", label).
			Msg("Updated record category")
		result.Updated++
	}

	log.Info().
		Int("updated", result.Updated).
		Int("errors", result.Errors).
		Int("skipped", result.Skipped).
		Msg("Category backfill completed")

	return result, nil
}
