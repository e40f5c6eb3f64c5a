package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/octobees/localfinds/internal/repository"
)

type mockBulkUpserter struct {
	bulk func(ctx context.Context, records []repository.BusinessInput) (repository.BulkUpsertResult, error)
}

func (m *mockBulkUpserter) BulkUpsertBusinesses(ctx context.Context, records []repository.BusinessInput) (repository.BulkUpsertResult, error) {
	if m.bulk != nil {
		return m.bulk(ctx, records)
	}
	return repository.BulkUpsertResult{}, errors.New("bulk not implemented")
}

func newImportTestService(repo BulkUpserter) *ImportService {
	return NewImportService(repo, NewContactCleaner("US", WithDNSResolver(nil)), "Lakeland", "FL")
}

func TestImportService_ImportBusinessesCSV(t *testing.T) {
	csvData := strings.Join([]string{
		"Name,Address,Category,Phone,Website,Rating,Total_Ratings,Lat,Lng,City",
		"Lakeland Coffee Co,123 Main St,Cafe,(415) 555-1234,lakelandcoffee.com?utm_source=x,4.5,120,28.04,-81.95,",
		"Joe's Diner,9 Lake Ave,Restaurant,,,4.8,,,,Winter Haven",
		",missing name,,,,,,,,",
	}, "\n")

	var received []repository.BusinessInput
	svc := newImportTestService(&mockBulkUpserter{
		bulk: func(ctx context.Context, records []repository.BusinessInput) (repository.BulkUpsertResult, error) {
			received = records
			return repository.BulkUpsertResult{Inserted: 1, Updated: 1, Total: 2}, nil
		},
	})

	summary, err := svc.ImportBusinessesCSV(context.Background(), strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Inserted != 1 || summary.Updated != 1 || summary.Total != 2 || summary.Skipped != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(received) != 2 {
		t.Fatalf("expected 2 records, got %d", len(received))
	}

	first := received[0]
	if first.Phone == nil || *first.Phone != "+14155551234" {
		t.Fatalf("expected normalized phone, got %v", first.Phone)
	}
	if first.WebsiteURL == nil || *first.WebsiteURL != "https://lakelandcoffee.com" {
		t.Fatalf("expected cleaned website, got %v", first.WebsiteURL)
	}
	if first.City != "Lakeland" || first.State != "FL" {
		t.Fatalf("expected locale defaults, got %s %s", first.City, first.State)
	}
	if first.Lat == nil || first.TotalRatings == nil || *first.TotalRatings != 120 {
		t.Fatalf("expected numeric columns parsed: %+v", first)
	}
	if received[1].City != "Winter Haven" || received[1].Phone != nil {
		t.Fatalf("unexpected second record: %+v", received[1])
	}
}

func TestImportService_ImportBusinessesCSV_MissingColumns(t *testing.T) {
	svc := newImportTestService(&mockBulkUpserter{})

	_, err := svc.ImportBusinessesCSV(context.Background(), strings.NewReader("name,phone\nA,1"))
	var verr CSVValidationError
	if !errors.As(err, &verr) || !strings.Contains(verr.Message, "address") {
		t.Fatalf("expected missing address column error, got %v", err)
	}

	_, err = svc.ImportBusinessesCSV(context.Background(), strings.NewReader(""))
	if !errors.As(err, &verr) {
		t.Fatalf("expected empty csv error, got %v", err)
	}
}

func TestImportService_ImportBusinessesCSV_InvalidRating(t *testing.T) {
	svc := newImportTestService(&mockBulkUpserter{})

	_, err := svc.ImportBusinessesCSV(context.Background(), strings.NewReader("name,address,rating\nA,1 Main St,7.5"))
	var verr CSVValidationError
	if !errors.As(err, &verr) || !strings.Contains(verr.Message, "row 2") {
		t.Fatalf("expected rating validation error on row 2, got %v", err)
	}
}
