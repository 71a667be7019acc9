package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/dvloznov/ledger-insights/internal/classify"
	"github.com/dvloznov/ledger-insights/internal/logger"
	"github.com/dvloznov/ledger-insights/internal/notionledger"
)

func main() {
	_ = godotenv.Load()

	// Initialize structured logger
	log := logger.New()

	// Parse CLI flags
	notionToken := flag.String("notion-token", os.Getenv("NOTION_API_KEY"), "Notion API token (or set NOTION_API_KEY env)")
	notionDBID := flag.String("notion-db-id", os.Getenv("NOTION_DATABASE_ID"), "Notion database ID (or set NOTION_DATABASE_ID env)")
	dryRun := flag.Bool("dry-run", false, "Dry run mode - preview changes without writing")
	flag.Parse()

	// Validate required flags
	if *notionToken == "" {
		log.Fatal().Msg("Error: --notion-token is required")
	}
	if *notionDBID == "" {
		log.Fatal().Msg("Error: --notion-db-id is required")
	}

	// Create context with timeout so CLI doesn't hang
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Add logger to context
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Bool("dry_run", *dryRun).
		Msg("Starting category backfill")

	store := notionledger.NewStore(notionledger.NewNotionClient(*notionToken), *notionDBID)

	table := classify.DefaultTable()
	result, err := notionledger.BackfillCategories(ctx, store, table.Classify, *dryRun)
	if err != nil {
		log.Fatal().Err(err).Msg("Backfill failed")
	}

	log.Info().
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("errors", result.Errors).
		Msg("Backfill finished")

	fmt.Println("Backfill completed successfully.")
}
