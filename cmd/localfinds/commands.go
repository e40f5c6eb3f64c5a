package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/octobees/localfinds/internal/enrich"
	"github.com/octobees/localfinds/internal/ingest/legacy"
	"github.com/octobees/localfinds/internal/ingest/osm"
	"github.com/octobees/localfinds/internal/service"
)

// Run executes the migrate command.
func (c *MigrateCmd) Run(deps *Dependencies) error {
	if err := deps.Migrate(deps.Config.DatabaseURL); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Migrations applied.")
	return nil
}

// Run executes the ingest-osm command.
func (c *IngestOSMCmd) Run(deps *Dependencies) error {
	ingester := osm.NewIngester(deps.Overpass, deps.Businesses, deps.Cleaner, deps.Logger,
		deps.Config.DefaultCity, deps.Config.DefaultState)

	if c.DryRun {
		records, summary, err := ingester.Plan(deps.Ctx)
		if err != nil {
			return err
		}
		for _, r := range records {
			fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", r.Name, *r.Category, r.Address)
		}
		fmt.Fprintf(deps.Stdout, "elements=%d duplicates=%d no_category=%d ready=%d\n",
			summary.Elements, summary.Duplicates, summary.NoCategory, len(records))
		return nil
	}

	summary, err := ingester.Run(deps.Ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "elements=%d duplicates=%d no_category=%d inserted=%d failed=%d\n",
		summary.Elements, summary.Duplicates, summary.NoCategory, summary.Inserted, summary.Failed)
	return nil
}

// Run executes the seed-legacy command.
func (c *SeedLegacyCmd) Run(deps *Dependencies) error {
	if deps.Contacts == nil {
		return legacy.ErrMissingCredentials
	}
	seeder := legacy.NewSeeder(deps.Contacts, deps.Businesses, deps.Cleaner, deps.Logger, nil,
		deps.Config.DefaultCity, deps.Config.DefaultState)

	summary, err := seeder.Seed(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "fetched=%d eligible=%d inserted=%d updated=%d\n",
		summary.Fetched, summary.Eligible, summary.Inserted, summary.Updated)
	return nil
}

// Run executes the seed-csv command.
func (c *SeedCSVCmd) Run(deps *Dependencies) error {
	f, err := os.Open(c.Path)
	if err != nil {
		return fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	importer := service.NewImportService(deps.Businesses, deps.Cleaner, deps.Config.DefaultCity, deps.Config.DefaultState)
	summary, err := importer.ImportBusinessesCSV(deps.Ctx, f)
	if err != nil {
		var csvErr service.CSVValidationError
		if errors.As(err, &csvErr) {
			fmt.Fprintf(deps.Stderr, "error: %s\n", csvErr.Message)
		}
		return err
	}
	fmt.Fprintf(deps.Stdout, "total=%d inserted=%d updated=%d skipped=%d\n",
		summary.Total, summary.Inserted, summary.Updated, summary.Skipped)
	return nil
}

// Run executes the enrich command.
func (c *EnrichCmd) Run(deps *Dependencies) error {
	enricher := enrich.NewEnricher(deps.Businesses, deps.Summarizer, enrich.LimiterFor(deps.Config.EnrichRate), deps.Logger)

	summary, err := enricher.Run(deps.Ctx, enrich.Options{All: c.All, Limit: c.Limit, DryRun: c.DryRun})
	if err != nil {
		return err
	}
	if c.DryRun {
		for _, r := range summary.Results {
			fmt.Fprintf(deps.Stdout, "%s: %s\n", r.Name, r.Summary)
		}
	}
	fmt.Fprintf(deps.Stdout, "candidates=%d updated=%d skipped=%d\n",
		summary.Candidates, summary.Updated, summary.Skipped)
	return nil
}

// Run executes the rescore command.
func (c *RescoreCmd) Run(deps *Dependencies) error {
	summary, err := service.NewRescoreService(deps.Businesses, deps.Logger).Rescore(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "scored=%d unchanged=%d failed=%d\n", summary.Scored, summary.Skipped, summary.Failed)
	return nil
}
