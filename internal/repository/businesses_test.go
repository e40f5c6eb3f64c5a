package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
)

func TestBuildSearchQuery(t *testing.T) {
	query, args := buildSearchQuery(dto.SearchFilter{Query: " coffee ", Category: "Cafe", Limit: 500})
	if !strings.Contains(query, "(name ILIKE $1 OR category ILIKE $1 OR address ILIKE $1)") {
		t.Fatalf("expected text match on $1, got %s", query)
	}
	if !strings.Contains(query, "AND category ILIKE $2") {
		t.Fatalf("expected category clause on $2, got %s", query)
	}
	if !strings.Contains(query, "ORDER BY rating DESC NULLS LAST LIMIT $3") {
		t.Fatalf("expected rating order and limit, got %s", query)
	}
	if len(args) != 3 || args[0] != "%coffee%" || args[1] != "%Cafe%" || args[2] != MaxSearchResults {
		t.Fatalf("unexpected args: %#v", args)
	}

	query, args = buildSearchQuery(dto.SearchFilter{})
	if strings.Contains(query, "WHERE") {
		t.Fatalf("expected unfiltered query, got %s", query)
	}
	if len(args) != 1 || args[0] != MaxSearchResults {
		t.Fatalf("unexpected args for unfiltered query: %#v", args)
	}

	_, args = buildSearchQuery(dto.SearchFilter{Category: "Bar", Limit: 10})
	if len(args) != 2 || args[0] != "%Bar%" || args[1] != 10 {
		t.Fatalf("unexpected args for category-only query: %#v", args)
	}
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"50%":      `%50\%%`,
		"a_b":      `%a\_b%`,
		`back\sla`: `%back\\sla%`,
		"pizza":    "%pizza%",
	}
	for in, want := range cases {
		if got := containsPattern(in); got != want {
			t.Fatalf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPGXBusinessesRepository_ListTopRated(t *testing.T) {
	var captured string
	var capturedArgs []any
	repo := &PGXBusinessesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			captured = query
			capturedArgs = args
			return &stubRows{scans: []func(dest ...any) error{
				businessRow(uuid.New(), "Top Spot", strPtr("Cafe"), floatPtr(4.9)),
				businessRow(uuid.New(), "Unrated", nil, nil),
			}}, nil
		},
	}}

	businesses, err := repo.ListTopRated(context.Background(), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(captured, "ORDER BY rating DESC NULLS LAST") {
		t.Fatalf("expected rating ordering, got %s", captured)
	}
	if len(capturedArgs) != 1 || capturedArgs[0] != 24 {
		t.Fatalf("unexpected args: %#v", capturedArgs)
	}
	if len(businesses) != 2 {
		t.Fatalf("expected 2 businesses, got %d", len(businesses))
	}
	first := businesses[0]
	if first.Name != "Top Spot" || first.Category == nil || *first.Category != "Cafe" || first.Rating == nil || *first.Rating != 4.9 {
		t.Fatalf("unexpected first business: %+v", first)
	}
	if !first.HasCoordinates() || first.TotalRatings == nil || *first.TotalRatings != 12 {
		t.Fatalf("expected coordinates and total ratings: %+v", first)
	}
	if businesses[1].Rating != nil || businesses[1].Category != nil || businesses[1].Email != nil {
		t.Fatalf("expected NULL columns to stay nil: %+v", businesses[1])
	}
}

func TestPGXBusinessesRepository_ListTopRatedError(t *testing.T) {
	repo := &PGXBusinessesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return nil, errors.New("connection refused")
		},
	}}
	if _, err := repo.ListTopRated(context.Background(), 5); err == nil {
		t.Fatalf("expected error")
	}

	repo.pool = &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			return &stubRows{err: errors.New("broken stream")}, nil
		},
	}
	if _, err := repo.ListTopRated(context.Background(), 5); err == nil {
		t.Fatalf("expected iteration error")
	}
}

func TestPGXBusinessesRepository_Search(t *testing.T) {
	var capturedArgs []any
	repo := &PGXBusinessesRepository{pool: &stubPool{
		queryFunc: func(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
			capturedArgs = args
			return &stubRows{scans: []func(dest ...any) error{
				businessRow(uuid.New(), "Joe's Pizza", strPtr("Restaurant"), floatPtr(4.2)),
			}}, nil
		},
	}}

	businesses, err := repo.Search(context.Background(), dto.SearchFilter{Query: "pizza"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(businesses) != 1 || businesses[0].Name != "Joe's Pizza" {
		t.Fatalf("unexpected businesses: %+v", businesses)
	}
	if len(capturedArgs) != 2 || capturedArgs[0] != "%pizza%" {
		t.Fatalf("unexpected args: %#v", capturedArgs)
	}
}

func TestPGXBusinessesRepository_FindByID(t *testing.T) {
	id := uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	repo := &PGXBusinessesRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			if len(args) != 1 || args[0] != id {
				t.Fatalf("unexpected args: %#v", args)
			}
			return &stubRow{scan: businessRow(id, "Lakeside Books", strPtr("Books"), floatPtr(4.6))}
		},
	}}

	business, err := repo.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if business.ID != id || business.Name != "Lakeside Books" {
		t.Fatalf("unexpected business: %+v", business)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		},
	}
	if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}

	repo.pool = &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error { return errors.New("timeout") }}
		},
	}
	if _, err := repo.FindByID(context.Background(), uuid.New()); err == nil || errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestPGXBusinessesRepository_FindByIDKeepsEveryColumn(t *testing.T) {
	id := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	scored := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	repo := &PGXBusinessesRepository{pool: &stubPool{
		queryRowFunc: func(ctx context.Context, query string, args ...any) pgx.Row {
			return &stubRow{scan: func(dest ...any) error {
				if len(dest) != 19 {
					t.Fatalf("expected 19 scan targets, got %d", len(dest))
				}
				*dest[0].(*uuid.UUID) = id
				*dest[1].(*string) = "Black & Brew"
				*dest[2].(*string) = "205 N Kentucky Ave"
				*dest[3].(*sql.NullString) = sql.NullString{String: "Cafe", Valid: true}
				*dest[4].(*string) = "Lakeland"
				*dest[5].(*string) = "FL"
				*dest[6].(*sql.NullString) = sql.NullString{String: "+18635550100", Valid: true}
				*dest[7].(*sql.NullString) = sql.NullString{String: "hello@blackandbrew.com", Valid: true}
				*dest[8].(*sql.NullString) = sql.NullString{String: "https://blackandbrew.com", Valid: true}
				*dest[9].(*sql.NullFloat64) = sql.NullFloat64{Float64: 4.7, Valid: true}
				*dest[10].(*sql.NullInt64) = sql.NullInt64{Int64: 318, Valid: true}
				*dest[11].(*sql.NullFloat64) = sql.NullFloat64{Float64: 28.0442, Valid: true}
				*dest[12].(*sql.NullFloat64) = sql.NullFloat64{Float64: -81.9561, Valid: true}
				*dest[13].(*sql.NullString) = sql.NullString{String: "Cozy downtown coffee with a hidden gem patio.", Valid: true}
				*dest[14].(*bool) = true
				*dest[15].(*sql.NullInt64) = sql.NullInt64{Int64: 73, Valid: true}
				*dest[16].(*sql.NullTime) = sql.NullTime{Time: scored, Valid: true}
				*dest[17].(*time.Time) = created
				*dest[18].(*time.Time) = updated
				return nil
			}}
		},
	}}

	business, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	want := entity.Business{
		ID:                id,
		Name:              "Black & Brew",
		Address:           "205 N Kentucky Ave",
		Category:          strPtr("Cafe"),
		City:              "Lakeland",
		State:             "FL",
		Phone:             strPtr("+18635550100"),
		Email:             strPtr("hello@blackandbrew.com"),
		WebsiteURL:        strPtr("https://blackandbrew.com"),
		Rating:            floatPtr(4.7),
		TotalRatings:      intPtr(318),
		Lat:               floatPtr(28.0442),
		Lng:               floatPtr(-81.9561),
		VibeSummary:       strPtr("Cozy downtown coffee with a hidden gem patio."),
		ClaimedStatus:     true,
		AIVisibilityScore: intPtr(73),
		AIScoreDate:       &scored,
		CreatedAt:         created,
		UpdatedAt:         updated,
	}
	assert.Equal(t, want, *business)
}

func TestPGXBusinessesRepository_Count(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)::int FROM businesses")).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	repo := &PGXBusinessesRepository{pool: mock}
	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXBusinessesRepository_ListCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(regexp.QuoteMeta(categoryPresent) + ".*GROUP BY category").
		WillReturnRows(pgxmock.NewRows([]string{"category", "total"}).
			AddRow("Restaurant", 12).
			AddRow("Cafe", 4))

	repo := &PGXBusinessesRepository{pool: mock}
	categories, err := repo.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Restaurant", categories[0].Category)
	assert.Equal(t, 12, categories[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXBusinessesRepository_MatchCategories(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("WHERE category ILIKE \\$1 AND " + regexp.QuoteMeta(categoryPresent)).
		WithArgs("%bar%", 5).
		WillReturnRows(pgxmock.NewRows([]string{"category", "total"}).
			AddRow("Bar", 3).
			AddRow("Barber", 1))

	repo := &PGXBusinessesRepository{pool: mock}
	categories, err := repo.MatchCategories(context.Background(), "bar", 5)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXBusinessesRepository_MatchBusinesses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first := uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	second := uuid.MustParse("eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, category, rating, address") + ".*ORDER BY rating DESC NULLS LAST").
		WithArgs("%taco%", 8).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category", "rating", "address"}).
			AddRow(first, "Taco Lu", "Mexican", 4.8, "1 Lake Morton Dr").
			AddRow(second, "Taco Town", "Food Truck", 3.9, "77 Florida Ave"))

	repo := &PGXBusinessesRepository{pool: mock}
	suggestions, err := repo.MatchBusinesses(context.Background(), "taco", 8)
	require.NoError(t, err)

	assert.Equal(t, []entity.BusinessSuggestion{
		{ID: first, Name: "Taco Lu", Category: strPtr("Mexican"), Rating: floatPtr(4.8), Address: "1 Lake Morton Dr"},
		{ID: second, Name: "Taco Town", Category: strPtr("Food Truck"), Rating: floatPtr(3.9), Address: "77 Florida Ave"},
	}, suggestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXBusinessesRepository_MatchBusinessesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, category, rating, address").
		WithArgs("%taco%", 8).
		WillReturnError(errors.New("statement timeout"))

	repo := &PGXBusinessesRepository{pool: mock}
	_, err = repo.MatchBusinesses(context.Background(), "taco", 8)
	assert.ErrorContains(t, err, "match businesses")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGXBusinessesRepository_ListSitemapEntriesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("ORDER BY updated_at DESC").
		WithArgs(5000).
		WillReturnError(errors.New("down"))

	repo := &PGXBusinessesRepository{pool: mock}
	_, err = repo.ListSitemapEntries(context.Background(), 5000)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
