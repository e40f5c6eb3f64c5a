package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
)

// ErrBusinessNotFound indicates no business row matches the identifier.
var ErrBusinessNotFound = errors.New("business not found")

// MaxSearchResults caps every search result set.
const MaxSearchResults = 100

// BusinessesRepository describes the read operations behind the directory pages.
type BusinessesRepository interface {
	ListTopRated(ctx context.Context, limit int) ([]entity.Business, error)
	Count(ctx context.Context) (int, error)
	ListCategories(ctx context.Context) ([]entity.CategoryCount, error)
	Search(ctx context.Context, filter dto.SearchFilter) ([]entity.Business, error)
	MatchCategories(ctx context.Context, term string, limit int) ([]entity.CategoryCount, error)
	MatchBusinesses(ctx context.Context, term string, limit int) ([]entity.BusinessSuggestion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error)
	ListSitemapEntries(ctx context.Context, limit int) ([]entity.SitemapEntry, error)
}

// PGXBusinessesRepository implements BusinessesRepository and BusinessWriter using pgx.
type PGXBusinessesRepository struct {
	pool pgxPool
}

// NewPGXBusinessesRepository wires a pgx backed repository.
func NewPGXBusinessesRepository(pool *pgxpool.Pool) *PGXBusinessesRepository {
	return &PGXBusinessesRepository{pool: pool}
}

const businessColumns = `
            id,
            name,
            address,
            category,
            city,
            state,
            phone,
            email,
            website_url,
            rating,
            total_ratings,
            lat,
            lng,
            vibe_summary,
            claimed_status,
            ai_visibility_score,
            ai_score_date,
            created_at,
            updated_at`

// categoryPresent is the single predicate that keeps absent categories out of every aggregation.
const categoryPresent = "category IS NOT NULL AND BTRIM(category) <> ''"

// textMatch compares one bound pattern against every searchable column.
const textMatch = "(name ILIKE $%[1]d OR category ILIKE $%[1]d OR address ILIKE $%[1]d)"

const ratingOrder = "rating DESC NULLS LAST"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern wraps a user term for a literal, case-insensitive "contains" ILIKE match.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// ListTopRated returns up to limit businesses ordered by rating.
func (r *PGXBusinessesRepository) ListTopRated(ctx context.Context, limit int) ([]entity.Business, error) {
	query := "SELECT" + businessColumns + "\n        FROM businesses\n        ORDER BY " + ratingOrder + "\n        LIMIT $1"

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list top rated businesses: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

// Count returns the total number of business rows.
func (r *PGXBusinessesRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)::int FROM businesses`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count businesses: %w", err)
	}
	return total, nil
}

// ListCategories groups businesses by category, most populated first.
func (r *PGXBusinessesRepository) ListCategories(ctx context.Context) ([]entity.CategoryCount, error) {
	query := `
        SELECT category, COUNT(*)::int AS total
        FROM businesses
        WHERE ` + categoryPresent + `
        GROUP BY category
        ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	return scanCategoryCounts(rows)
}

// Search retrieves businesses matching the filter, sorted by rating.
func (r *PGXBusinessesRepository) Search(ctx context.Context, filter dto.SearchFilter) ([]entity.Business, error) {
	query, args := buildSearchQuery(filter)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search businesses: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

func buildSearchQuery(filter dto.SearchFilter) (string, []any) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString("SELECT")
	baseQuery.WriteString(businessColumns)
	baseQuery.WriteString("\n        FROM businesses")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, fmt.Sprintf(textMatch, idx))
		args = append(args, containsPattern(q))
		idx++
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		clauses = append(clauses, fmt.Sprintf("category ILIKE $%d", idx))
		args = append(args, containsPattern(category))
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}

	baseQuery.WriteString(" ORDER BY ")
	baseQuery.WriteString(ratingOrder)

	limit := filter.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d", idx))
	args = append(args, limit)

	return baseQuery.String(), args
}

// MatchCategories returns categories containing term, most populated first.
func (r *PGXBusinessesRepository) MatchCategories(ctx context.Context, term string, limit int) ([]entity.CategoryCount, error) {
	query := `
        SELECT category, COUNT(*)::int AS total
        FROM businesses
        WHERE category ILIKE $1 AND ` + categoryPresent + `
        GROUP BY category
        ORDER BY total DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, containsPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("match categories: %w", err)
	}
	defer rows.Close()

	return scanCategoryCounts(rows)
}

// MatchBusinesses returns the dropdown projection of businesses containing term.
func (r *PGXBusinessesRepository) MatchBusinesses(ctx context.Context, term string, limit int) ([]entity.BusinessSuggestion, error) {
	query := `
        SELECT id, name, category, rating, address
        FROM businesses
        WHERE ` + fmt.Sprintf(textMatch, 1) + `
        ORDER BY ` + ratingOrder + `
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, containsPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("match businesses: %w", err)
	}
	defer rows.Close()

	suggestions := make([]entity.BusinessSuggestion, 0)
	for rows.Next() {
		var (
			s        entity.BusinessSuggestion
			category sql.NullString
			rating   sql.NullFloat64
		)
		if err := rows.Scan(&s.ID, &s.Name, &category, &rating, &s.Address); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		s.Category = nullStringToPtr(category)
		s.Rating = nullFloatToPtr(rating)
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return suggestions, nil
}

// FindByID fetches a single business by identifier.
func (r *PGXBusinessesRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Business, error) {
	query := "SELECT" + businessColumns + "\n        FROM businesses\n        WHERE id = $1"

	business, err := scanBusiness(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("fetch business: %w", err)
	}
	return &business, nil
}

// ListSitemapEntries returns the most recently updated business pages.
func (r *PGXBusinessesRepository) ListSitemapEntries(ctx context.Context, limit int) ([]entity.SitemapEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, updated_at FROM businesses ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sitemap entries: %w", err)
	}
	defer rows.Close()

	entries := make([]entity.SitemapEntry, 0)
	for rows.Next() {
		var e entity.SitemapEntry
		if err := rows.Scan(&e.ID, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sitemap entries: %w", err)
	}
	return entries, nil
}

func scanCategoryCounts(rows pgx.Rows) ([]entity.CategoryCount, error) {
	counts := make([]entity.CategoryCount, 0)
	for rows.Next() {
		var c entity.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBusinesses(rows pgx.Rows) ([]entity.Business, error) {
	businesses := make([]entity.Business, 0)
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, fmt.Errorf("scan business: %w", err)
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate businesses: %w", err)
	}
	return businesses, nil
}

func scanBusiness(row rowScanner) (entity.Business, error) {
	var (
		b            entity.Business
		category     sql.NullString
		phone        sql.NullString
		email        sql.NullString
		website      sql.NullString
		rating       sql.NullFloat64
		totalRatings sql.NullInt64
		lat          sql.NullFloat64
		lng          sql.NullFloat64
		vibe         sql.NullString
		score        sql.NullInt64
		scoreDate    sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.Name,
		&b.Address,
		&category,
		&b.City,
		&b.State,
		&phone,
		&email,
		&website,
		&rating,
		&totalRatings,
		&lat,
		&lng,
		&vibe,
		&b.ClaimedStatus,
		&score,
		&scoreDate,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return entity.Business{}, err
	}

	b.Category = nullStringToPtr(category)
	b.Phone = nullStringToPtr(phone)
	b.Email = nullStringToPtr(email)
	b.WebsiteURL = nullStringToPtr(website)
	b.Rating = nullFloatToPtr(rating)
	b.TotalRatings = nullIntToPtr(totalRatings)
	b.Lat = nullFloatToPtr(lat)
	b.Lng = nullFloatToPtr(lng)
	b.VibeSummary = nullStringToPtr(vibe)
	b.AIVisibilityScore = nullIntToPtr(score)
	if scoreDate.Valid {
		ts := scoreDate.Time
		b.AIScoreDate = &ts
	}
	return b, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func nullFloatToPtr(value sql.NullFloat64) *float64 {
	if value.Valid {
		val := value.Float64
		return &val
	}
	return nil
}

func nullIntToPtr(value sql.NullInt64) *int {
	if value.Valid {
		cast := int(value.Int64)
		return &cast
	}
	return nil
}
