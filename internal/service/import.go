package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/octobees/localfinds/internal/repository"
)

// BulkUpserter is the slice of the business writer needed for CSV imports.
type BulkUpserter interface {
	BulkUpsertBusinesses(ctx context.Context, records []repository.BusinessInput) (repository.BulkUpsertResult, error)
}

// CSVValidationError indicates that the provided CSV payload is invalid.
type CSVValidationError struct {
	Message string
}

// Error implements the error interface.
func (e CSVValidationError) Error() string {
	return e.Message
}

// UploadSummary reports how many rows were inserted or updated during import.
type UploadSummary struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// ImportService loads listings from spreadsheets exported by operators.
type ImportService struct {
	repo         BulkUpserter
	cleaner      *ContactCleaner
	defaultCity  string
	defaultState string
}

// NewImportService creates a new instance of ImportService.
func NewImportService(repo BulkUpserter, cleaner *ContactCleaner, defaultCity, defaultState string) *ImportService {
	return &ImportService{repo: repo, cleaner: cleaner, defaultCity: defaultCity, defaultState: defaultState}
}

// ImportBusinessesCSV ingests listings from a CSV reader in a single transaction.
func (s *ImportService) ImportBusinessesCSV(ctx context.Context, r io.Reader) (UploadSummary, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return UploadSummary{}, CSVValidationError{Message: "csv file is empty"}
		}
		return UploadSummary{}, fmt.Errorf("read csv header: %w", err)
	}

	indexMap, valErr := buildHeaderIndex(header)
	if valErr != nil {
		return UploadSummary{}, valErr
	}

	var (
		records []repository.BusinessInput
		skipped int
		rowNum  = 1
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return UploadSummary{}, fmt.Errorf("read csv row: %w", err)
		}

		rowNum++
		col := func(name string) string {
			idx, ok := indexMap[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		name := strings.TrimSpace(col("name"))
		address := strings.TrimSpace(col("address"))
		if name == "" || address == "" {
			skipped++
			continue
		}

		rating, parseErr := parseOptionalFloat(col("rating"))
		if parseErr != nil || (rating != nil && (*rating < 0 || *rating > 5)) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid rating value on row %d", rowNum)}
		}

		totalRatings, parseErr := parseOptionalInt(col("total_ratings"))
		if parseErr != nil || (totalRatings != nil && *totalRatings < 0) {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid total_ratings value on row %d", rowNum)}
		}

		lat, latErr := parseOptionalFloat(col("lat"))
		lng, lngErr := parseOptionalFloat(col("lng"))
		if latErr != nil || lngErr != nil {
			return UploadSummary{}, CSVValidationError{Message: fmt.Sprintf("invalid coordinates on row %d", rowNum)}
		}

		contact := s.cleaner.Clean(ctx, RawContact{
			Phone:   col("phone"),
			Email:   col("email"),
			Website: col("website"),
		})

		records = append(records, repository.BusinessInput{
			Name:         name,
			Address:      address,
			Category:     normalizeString(col("category")),
			City:         valueOr(col("city"), s.defaultCity),
			State:        valueOr(col("state"), s.defaultState),
			Phone:        contact.Phone,
			Email:        contact.Email,
			WebsiteURL:   contact.Website,
			Rating:       rating,
			TotalRatings: totalRatings,
			Lat:          lat,
			Lng:          lng,
		})
	}

	result, err := s.repo.BulkUpsertBusinesses(ctx, records)
	if err != nil {
		return UploadSummary{}, err
	}

	return UploadSummary{
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Skipped:  skipped,
		Total:    result.Total,
	}, nil
}

var requiredCSVHeaders = []string{"name", "address"}

func buildHeaderIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, col := range header {
		index[strings.ToLower(strings.TrimSpace(col))] = i
	}

	missing := make([]string, 0)
	for _, required := range requiredCSVHeaders {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, CSVValidationError{Message: fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", "))}
	}
	return index, nil
}

func parseOptionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func normalizeString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
