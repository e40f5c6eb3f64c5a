package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
	"github.com/octobees/localfinds/internal/repository"
)

const (
	// DefaultRecentLimit is used when callers ask for a non-positive page size.
	DefaultRecentLimit = 24
	// MaxRecentLimit caps the page size of ListRecent.
	MaxRecentLimit = 100
	// MinQueryLength is the shortest search term that reaches the store.
	MinQueryLength = 2
	// MaxCategorySuggestions bounds the category half of an autocomplete result.
	MaxCategorySuggestions = 5
	// MaxBusinessSuggestions bounds the business half of an autocomplete result.
	MaxBusinessSuggestions = 8
	// SitemapBusinessLimit bounds the business pages listed in the sitemap.
	SitemapBusinessLimit = 5000
)

// QueryError reports a storage fault behind a read operation.
type QueryError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying storage error.
func (e *QueryError) Unwrap() error {
	return e.Err
}

// BusinessesService is the read side of the directory.
type BusinessesService struct {
	repo   repository.BusinessesRepository
	logger *slog.Logger
}

// NewBusinessesService creates a new instance of BusinessesService.
func NewBusinessesService(repo repository.BusinessesRepository, logger *slog.Logger) *BusinessesService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BusinessesService{repo: repo, logger: logger}
}

// ListRecent returns the highest rated businesses, unrated ones last.
// The limit is clamped to MaxRecentLimit.
func (s *BusinessesService) ListRecent(ctx context.Context, limit int) ([]entity.Business, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	businesses, err := s.repo.ListTopRated(ctx, limit)
	if err != nil {
		return []entity.Business{}, s.fault(ctx, "list_recent", err)
	}
	return businesses, nil
}

// CountAll returns the number of stored businesses. Storage faults are logged and count as 0.
func (s *BusinessesService) CountAll(ctx context.Context) int {
	total, err := s.repo.Count(ctx)
	if err != nil {
		_ = s.fault(ctx, "count_all", err)
		return 0
	}
	return total
}

// ListCategories returns every non-empty category with its business count.
func (s *BusinessesService) ListCategories(ctx context.Context) ([]entity.CategoryCount, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return []entity.CategoryCount{}, s.fault(ctx, "list_categories", err)
	}
	return categories, nil
}

// Search matches query against name, category and address, optionally narrowed by category.
// A non-empty query shorter than MinQueryLength yields no results.
func (s *BusinessesService) Search(ctx context.Context, query, category string) ([]entity.Business, error) {
	query = strings.TrimSpace(query)
	category = strings.TrimSpace(category)
	if query != "" && tooShort(query) {
		return []entity.Business{}, nil
	}

	businesses, err := s.repo.Search(ctx, dto.SearchFilter{
		Query:    query,
		Category: category,
		Limit:    repository.MaxSearchResults,
	})
	if err != nil {
		return []entity.Business{}, s.fault(ctx, "search", err)
	}
	return businesses, nil
}

// Autocomplete returns matching categories and businesses for the search dropdown.
// On a storage fault both lists are empty and the fault is returned alongside.
func (s *BusinessesService) Autocomplete(ctx context.Context, prefix string) (dto.AutocompleteResponse, error) {
	prefix = strings.TrimSpace(prefix)
	if tooShort(prefix) {
		return dto.EmptyAutocomplete(), nil
	}

	var (
		categories []entity.CategoryCount
		businesses []entity.BusinessSuggestion
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.repo.MatchCategories(gctx, prefix, MaxCategorySuggestions)
		return err
	})
	g.Go(func() error {
		var err error
		businesses, err = s.repo.MatchBusinesses(gctx, prefix, MaxBusinessSuggestions)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.EmptyAutocomplete(), s.fault(ctx, "autocomplete", err)
	}

	resp := dto.EmptyAutocomplete()
	if categories != nil {
		resp.Categories = categories
	}
	if businesses != nil {
		resp.Businesses = businesses
	}
	return resp, nil
}

// FetchByID loads one business. A malformed id or a missing row is reported as not found.
func (s *BusinessesService) FetchByID(ctx context.Context, rawID string) (*entity.Business, bool, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, false, nil
	}

	business, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, false, nil
		}
		return nil, false, s.fault(ctx, "fetch_by_id", err)
	}
	return business, true, nil
}

// SitemapEntries lists the business pages to advertise in the sitemap.
func (s *BusinessesService) SitemapEntries(ctx context.Context) ([]entity.SitemapEntry, error) {
	entries, err := s.repo.ListSitemapEntries(ctx, SitemapBusinessLimit)
	if err != nil {
		return []entity.SitemapEntry{}, s.fault(ctx, "sitemap_entries", err)
	}
	return entries, nil
}

func (s *BusinessesService) fault(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "query failed", slog.String("op", op), slog.Any("error", err))
	return &QueryError{Op: op, Err: err}
}

func tooShort(term string) bool {
	return utf8.RuneCountInString(term) < MinQueryLength
}
