package legacy

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/service"
)

// DefaultCategory is used when no niche keyword matches.
const DefaultCategory = "Local Business"

// nicheRules are evaluated in order; the first rule with a matching keyword wins.
var nicheRules = []struct {
	keywords []string
	category string
}{
	{[]string{"hvac", "heating", "cooling", "air"}, "HVAC"},
	{[]string{"plumb"}, "Plumbing"},
	{[]string{"roof"}, "Roofing"},
	{[]string{"electric"}, "Electrical"},
	{[]string{"lawn", "landscape"}, "Landscaping"},
	{[]string{"pest"}, "Pest Control"},
	{[]string{"tow"}, "Towing"},
	{[]string{"locksmith"}, "Locksmith"},
	{[]string{"law", "legal", "attorney"}, "Legal Services"},
	{[]string{"water", "restoration", "flood"}, "Water Damage Restoration"},
	{[]string{"clean"}, "Cleaning Services"},
}

// InferCategory maps a free-text niche onto a directory category.
func InferCategory(niche string) string {
	niche = strings.ToLower(niche)
	for _, rule := range nicheRules {
		for _, kw := range rule.keywords {
			if strings.Contains(niche, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// scoreBands weight the synthetic visibility score towards low values.
var scoreBands = []struct {
	min, max, weight int
}{
	{8, 30, 40},
	{31, 55, 35},
	{56, 75, 20},
	{76, 95, 5},
}

// SyntheticScore draws a demo visibility score from the weighted bands.
func SyntheticScore(rng *rand.Rand) int {
	roll := rng.IntN(100)
	cumulative := 0
	for _, band := range scoreBands {
		cumulative += band.weight
		if roll < cumulative {
			return band.min + rng.IntN(band.max-band.min+1)
		}
	}
	return 25
}

// Upserter persists a batch keyed by name and address.
type Upserter interface {
	BulkUpsertBusinesses(ctx context.Context, records []repository.BusinessInput) (repository.BulkUpsertResult, error)
}

// Summary reports the outcome of a legacy seed.
type Summary struct {
	Fetched  int
	Eligible int
	Inserted int
	Updated  int
}

// Seeder copies legacy contacts into the directory.
type Seeder struct {
	source       ContactSource
	store        Upserter
	cleaner      *service.ContactCleaner
	logger       *slog.Logger
	rng          *rand.Rand
	defaultCity  string
	defaultState string
}

// NewSeeder wires a seeder. A nil rng draws from a randomly seeded source.
func NewSeeder(source ContactSource, store Upserter, cleaner *service.ContactCleaner, logger *slog.Logger, rng *rand.Rand, defaultCity, defaultState string) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Seeder{
		source:       source,
		store:        store,
		cleaner:      cleaner,
		logger:       logger,
		rng:          rng,
		defaultCity:  defaultCity,
		defaultState: defaultState,
	}
}

// Seed fetches up to limit contacts and upserts the ones with a usable company name.
// Existing rows keyed by (name, address) are updated rather than duplicated.
func (s *Seeder) Seed(ctx context.Context, limit int) (Summary, error) {
	var summary Summary

	contacts, err := s.source.FetchContacts(ctx, limit)
	if err != nil {
		return summary, fmt.Errorf("fetch legacy contacts: %w", err)
	}
	summary.Fetched = len(contacts)

	records := s.Records(ctx, contacts)
	summary.Eligible = len(records)
	if len(records) == 0 {
		return summary, nil
	}

	result, err := s.store.BulkUpsertBusinesses(ctx, records)
	if err != nil {
		return summary, fmt.Errorf("upsert legacy businesses: %w", err)
	}
	summary.Inserted = result.Inserted
	summary.Updated = result.Updated

	s.logger.InfoContext(ctx, "legacy contacts seeded",
		slog.Int("fetched", summary.Fetched),
		slog.Int("eligible", summary.Eligible),
		slog.Int("inserted", summary.Inserted),
		slog.Int("updated", summary.Updated),
	)
	return summary, nil
}

// Records converts contacts into listings, dropping names of two characters or fewer.
func (s *Seeder) Records(ctx context.Context, contacts []Contact) []repository.BusinessInput {
	address := fmt.Sprintf("%s, %s", s.defaultCity, s.defaultState)
	records := make([]repository.BusinessInput, 0, len(contacts))
	for _, c := range contacts {
		name := strings.TrimSpace(c.CompanyName)
		if len([]rune(name)) <= 2 {
			continue
		}
		category := InferCategory(c.Niche)
		score := SyntheticScore(s.rng)

		record := repository.BusinessInput{
			Name:              name,
			Address:           address,
			Category:          &category,
			City:              s.defaultCity,
			State:             s.defaultState,
			AIVisibilityScore: &score,
		}
		raw := service.RawContact{Phone: c.Phone, Email: c.Email, Website: c.WebsiteURL}
		if s.cleaner != nil {
			contact := s.cleaner.Clean(ctx, raw)
			record.Phone, record.Email, record.WebsiteURL = contact.Phone, contact.Email, contact.Website
		} else {
			record.Phone, record.Email, record.WebsiteURL = optional(raw.Phone), optional(raw.Email), optional(raw.Website)
		}
		records = append(records, record)
	}
	return records
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
