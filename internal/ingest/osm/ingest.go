package osm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/service"
)

// Store is the slice of the business writer used by the map ingestion.
type Store interface {
	ListNames(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, record repository.BusinessInput) (uuid.UUID, error)
}

// Summary reports the outcome of one ingestion run.
type Summary struct {
	Elements   int
	Duplicates int
	NoCategory int
	Unnamed    int
	Inserted   int
	Failed     int
}

// Ingester loads map features into the business store.
type Ingester struct {
	fetcher      Fetcher
	store        Store
	cleaner      *service.ContactCleaner
	logger       *slog.Logger
	box          BoundingBox
	defaultCity  string
	defaultState string
}

// NewIngester wires an ingester for the Lakeland bounding box.
func NewIngester(fetcher Fetcher, store Store, cleaner *service.ContactCleaner, logger *slog.Logger, defaultCity, defaultState string) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		fetcher:      fetcher,
		store:        store,
		cleaner:      cleaner,
		logger:       logger,
		box:          LakelandBBox,
		defaultCity:  valueOr(defaultCity, "Lakeland"),
		defaultState: valueOr(defaultState, "FL"),
	}
}

// WithBoundingBox overrides the queried area.
func (i *Ingester) WithBoundingBox(box BoundingBox) *Ingester {
	i.box = box
	return i
}

// Plan fetches the features and converts the new, categorisable ones into insert records.
// Names already stored, or seen earlier in the same run, are skipped case-insensitively.
func (i *Ingester) Plan(ctx context.Context) ([]repository.BusinessInput, Summary, error) {
	var summary Summary

	elements, err := i.fetcher.FetchElements(ctx, i.box)
	if err != nil {
		return nil, summary, fmt.Errorf("fetch map elements: %w", err)
	}
	summary.Elements = len(elements)

	names, err := i.store.ListNames(ctx)
	if err != nil {
		return nil, summary, fmt.Errorf("load existing names: %w", err)
	}
	seen := make(map[string]struct{}, len(names)+len(elements))
	for _, name := range names {
		seen[nameKey(name)] = struct{}{}
	}

	records := make([]repository.BusinessInput, 0, len(elements))
	for _, el := range elements {
		name := strings.TrimSpace(el.Tags["name"])
		if name == "" {
			summary.Unnamed++
			continue
		}
		if _, dup := seen[nameKey(name)]; dup {
			summary.Duplicates++
			continue
		}
		category, ok := MapCategory(el.Tags)
		if !ok {
			summary.NoCategory++
			continue
		}

		records = append(records, i.toRecord(ctx, el, name, category))
		seen[nameKey(name)] = struct{}{}
	}

	return records, summary, nil
}

// Run plans the ingestion and inserts each record individually.
// A failed insert is logged and counted; the run continues.
func (i *Ingester) Run(ctx context.Context) (Summary, error) {
	records, summary, err := i.Plan(ctx)
	if err != nil {
		return summary, err
	}

	i.logger.InfoContext(ctx, "map features planned",
		slog.Int("elements", summary.Elements),
		slog.Int("duplicates", summary.Duplicates),
		slog.Int("no_category", summary.NoCategory),
		slog.Int("ready", len(records)),
	)

	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if _, err := i.store.Insert(ctx, record); err != nil {
			summary.Failed++
			i.logger.WarnContext(ctx, "insert map business failed",
				slog.String("name", record.Name),
				slog.Any("error", err),
			)
			continue
		}
		summary.Inserted++
	}

	return summary, nil
}

func (i *Ingester) toRecord(ctx context.Context, el Element, name, category string) repository.BusinessInput {
	lat, lng := el.Coordinates()
	record := repository.BusinessInput{
		Name:     name,
		Address:  ExtractAddress(el.Tags, i.defaultCity, i.defaultState),
		Category: &category,
		City:     valueOr(el.Tags["addr:city"], i.defaultCity),
		State:    valueOr(el.Tags["addr:state"], i.defaultState),
		Lat:      lat,
		Lng:      lng,
	}

	raw := service.RawContact{
		Phone:   ExtractPhone(el.Tags),
		Email:   ExtractEmail(el.Tags),
		Website: ExtractWebsite(el.Tags),
	}
	if i.cleaner != nil {
		contact := i.cleaner.Clean(ctx, raw)
		record.Phone, record.Email, record.WebsiteURL = contact.Phone, contact.Email, contact.Website
		return record
	}
	record.Phone, record.Email, record.WebsiteURL = optional(raw.Phone), optional(raw.Email), optional(raw.Website)
	return record
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
