package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/octobees/localfinds/internal/config"
	"github.com/octobees/localfinds/internal/enrich"
	"github.com/octobees/localfinds/internal/ingest/legacy"
	"github.com/octobees/localfinds/internal/ingest/osm"
	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/service"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Config     *config.Config
	Businesses repository.BusinessWriter
	Cleaner    *service.ContactCleaner
	Migrate    func(dsn string) error
	Overpass   osm.Fetcher
	Contacts   legacy.ContactSource
	Summarizer enrich.Summarizer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Migrate    MigrateCmd    `cmd:"" name:"migrate" help:"Apply pending database migrations"`
	IngestOSM  IngestOSMCmd  `cmd:"" name:"ingest-osm" help:"Import named businesses from OpenStreetMap"`
	SeedLegacy SeedLegacyCmd `cmd:"" name:"seed-legacy" help:"Seed businesses from the legacy contacts table"`
	SeedCSV    SeedCSVCmd    `cmd:"" name:"seed-csv" help:"Upsert businesses from a CSV file"`
	Enrich     EnrichCmd     `cmd:"" name:"enrich" help:"Generate vibe summaries with Gemini"`
	Rescore    RescoreCmd    `cmd:"" name:"rescore" help:"Recompute visibility scores from listing data"`
}

// MigrateCmd is the "migrate" subcommand.
type MigrateCmd struct{}

// IngestOSMCmd is the "ingest-osm" subcommand.
type IngestOSMCmd struct {
	DryRun bool `short:"n" help:"Print what would be inserted without writing"`
}

// SeedLegacyCmd is the "seed-legacy" subcommand.
type SeedLegacyCmd struct {
	Limit int `short:"l" default:"1000" help:"Maximum contacts to fetch"`
}

// SeedCSVCmd is the "seed-csv" subcommand.
type SeedCSVCmd struct {
	Path string `arg:"" type:"existingfile" help:"CSV file with name and address columns"`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	All    bool `help:"Regenerate summaries for listings that already have one"`
	Limit  int  `short:"l" help:"Maximum listings to process (0 means all)"`
	DryRun bool `short:"n" help:"Print summaries without saving them"`
}

// RescoreCmd is the "rescore" subcommand.
type RescoreCmd struct {
	Limit int `short:"l" help:"Maximum listings to score (0 means all)"`
}
