package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
	"github.com/octobees/localfinds/internal/repository"
	"github.com/octobees/localfinds/internal/service"
)

type capturingBusinessesRepo struct {
	businesses    []entity.Business
	categories    []entity.CategoryCount
	suggestions   []entity.BusinessSuggestion
	sitemap       []entity.SitemapEntry
	lastLimit     int
	lastFilter    dto.SearchFilter
	searchCalls   int
	err           error
	autocompleteE error
}

func (c *capturingBusinessesRepo) ListTopRated(ctx context.Context, limit int) ([]entity.Business, error) {
	c.lastLimit = limit
	return c.businesses, c.err
}

func (c *capturingBusinessesRepo) Count(ctx context.Context) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	return len(c.businesses), nil
}

func (c *capturingBusinessesRepo) ListCategories(ctx context.Context) ([]entity.CategoryCount, error) {
	return c.categories, c.err
}

func (c *capturingBusinessesRepo) Search(ctx context.Context, filter dto.SearchFilter) ([]entity.Business, error) {
	c.searchCalls++
	c.lastFilter = filter
	return c.businesses, c.err
}

func (c *capturingBusinessesRepo) MatchCategories(ctx context.Context, term string, limit int) ([]entity.CategoryCount, error) {
	return c.categories, c.autocompleteE
}

func (c *capturingBusinessesRepo) MatchBusinesses(ctx context.Context, term string, limit int) ([]entity.BusinessSuggestion, error) {
	return c.suggestions, c.autocompleteE
}

func (c *capturingBusinessesRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	if c.err != nil {
		return nil, c.err
	}
	for _, b := range c.businesses {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, repository.ErrBusinessNotFound
}

func (c *capturingBusinessesRepo) ListSitemapEntries(ctx context.Context, limit int) ([]entity.SitemapEntry, error) {
	c.lastLimit = limit
	return c.sitemap, c.err
}

func newBusinessesService(repo repository.BusinessesRepository) *service.BusinessesService {
	return service.NewBusinessesService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }
