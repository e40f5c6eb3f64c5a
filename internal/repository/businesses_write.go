package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octobees/localfinds/internal/entity"
)

// BusinessWriter describes the persistence used by the offline ingestion tools.
type BusinessWriter interface {
	Insert(ctx context.Context, record BusinessInput) (uuid.UUID, error)
	BulkUpsertBusinesses(ctx context.Context, records []BusinessInput) (BulkUpsertResult, error)
	ListNames(ctx context.Context) ([]string, error)
	ListForEnrichment(ctx context.Context, includeSummarised bool, limit int) ([]entity.Business, error)
	UpdateVibeSummary(ctx context.Context, id uuid.UUID, summary string) error
	UpdateVisibilityScore(ctx context.Context, id uuid.UUID, score int) error
}

// BusinessInput carries the fields an ingestion source can supply for one listing.
type BusinessInput struct {
	Name              string
	Address           string
	Category          *string
	City              string
	State             string
	Phone             *string
	Email             *string
	WebsiteURL        *string
	Rating            *float64
	TotalRatings      *int
	Lat               *float64
	Lng               *float64
	AIVisibilityScore *int
}

// BulkUpsertResult summarises the number of rows inserted or updated.
type BulkUpsertResult struct {
	Inserted int
	Updated  int
	Total    int
}

const insertBusinessSQL = `
        INSERT INTO businesses (
            name, address, category, city, state, phone, email, website_url,
            rating, total_ratings, lat, lng, ai_visibility_score, ai_score_date
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            CASE WHEN $13::int IS NOT NULL THEN NOW() ELSE NULL END
        )
        RETURNING id;
    `

const bulkUpsertSQL = `
        INSERT INTO businesses (
            name, address, category, city, state, phone, email, website_url,
            rating, total_ratings, lat, lng, ai_visibility_score, ai_score_date
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            CASE WHEN $13::int IS NOT NULL THEN NOW() ELSE NULL END
        )
        ON CONFLICT (name, address) DO UPDATE SET
            category = COALESCE(EXCLUDED.category, businesses.category),
            city = EXCLUDED.city,
            state = EXCLUDED.state,
            phone = COALESCE(EXCLUDED.phone, businesses.phone),
            email = COALESCE(EXCLUDED.email, businesses.email),
            website_url = COALESCE(EXCLUDED.website_url, businesses.website_url),
            rating = COALESCE(EXCLUDED.rating, businesses.rating),
            total_ratings = COALESCE(EXCLUDED.total_ratings, businesses.total_ratings),
            lat = COALESCE(EXCLUDED.lat, businesses.lat),
            lng = COALESCE(EXCLUDED.lng, businesses.lng),
            ai_visibility_score = COALESCE(EXCLUDED.ai_visibility_score, businesses.ai_visibility_score),
            ai_score_date = COALESCE(EXCLUDED.ai_score_date, businesses.ai_score_date),
            updated_at = NOW()
        RETURNING xmax = 0;
    `

func businessArgs(record BusinessInput) []any {
	lat, lng := floatOrNil(record.Lat), floatOrNil(record.Lng)
	if lat == nil || lng == nil {
		lat, lng = nil, nil
	}
	return []any{
		strings.TrimSpace(record.Name),
		strings.TrimSpace(record.Address),
		stringOrNil(record.Category),
		record.City,
		record.State,
		stringOrNil(record.Phone),
		stringOrNil(record.Email),
		stringOrNil(record.WebsiteURL),
		floatOrNil(record.Rating),
		intOrNil(record.TotalRatings),
		lat,
		lng,
		intOrNil(record.AIVisibilityScore),
	}
}

// Insert stores a single new listing and returns its generated id.
func (r *PGXBusinessesRepository) Insert(ctx context.Context, record BusinessInput) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, insertBusinessSQL, businessArgs(record)...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("insert business %q: %w", record.Name, err)
	}
	return id, nil
}

// BulkUpsertBusinesses persists a batch of listings keyed by (name, address) in one transaction.
func (r *PGXBusinessesRepository) BulkUpsertBusinesses(ctx context.Context, records []BusinessInput) (BulkUpsertResult, error) {
	var result BulkUpsertResult
	if len(records) == 0 {
		return result, nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return result, fmt.Errorf("start bulk upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, record := range records {
		rows, err := tx.Query(ctx, bulkUpsertSQL, businessArgs(record)...)
		if err != nil {
			return result, fmt.Errorf("bulk upsert business %q: %w", record.Name, err)
		}

		var inserted bool
		if rows.Next() {
			if scanErr := rows.Scan(&inserted); scanErr != nil {
				rows.Close()
				return result, fmt.Errorf("scan bulk upsert result: %w", scanErr)
			}
		} else {
			err := rows.Err()
			rows.Close()
			if err != nil {
				return result, fmt.Errorf("bulk upsert business %q: %w", record.Name, err)
			}
			return result, fmt.Errorf("bulk upsert business %q: no result returned", record.Name)
		}
		rows.Close()

		if inserted {
			result.Inserted++
		} else {
			result.Updated++
		}
		result.Total++
	}

	if err := tx.Commit(ctx); err != nil {
		return result, fmt.Errorf("commit bulk upsert tx: %w", err)
	}

	return result, nil
}

// ListNames returns every stored business name.
func (r *PGXBusinessesRepository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM businesses`)
	if err != nil {
		return nil, fmt.Errorf("list business names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan business name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business names: %w", err)
	}
	return names, nil
}

// ListForEnrichment returns listings that still need a vibe summary, or every listing
// when includeSummarised is set. A non-positive limit means no limit.
func (r *PGXBusinessesRepository) ListForEnrichment(ctx context.Context, includeSummarised bool, limit int) ([]entity.Business, error) {
	query := strings.Builder{}
	query.WriteString("SELECT")
	query.WriteString(businessColumns)
	query.WriteString("\n        FROM businesses")
	if !includeSummarised {
		query.WriteString(" WHERE vibe_summary IS NULL OR BTRIM(vibe_summary) = ''")
	}
	query.WriteString(" ORDER BY created_at, id")

	var args []any
	if limit > 0 {
		query.WriteString(" LIMIT $1")
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses for enrichment: %w", err)
	}
	defer rows.Close()

	return scanBusinesses(rows)
}

// UpdateVibeSummary stores the generated blurb for a listing.
func (r *PGXBusinessesRepository) UpdateVibeSummary(ctx context.Context, id uuid.UUID, summary string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE businesses SET vibe_summary = $2, updated_at = NOW() WHERE id = $1`, id, summary)
	if err != nil {
		return fmt.Errorf("update vibe summary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

// UpdateVisibilityScore stores a freshly computed visibility score.
func (r *PGXBusinessesRepository) UpdateVisibilityScore(ctx context.Context, id uuid.UUID, score int) error {
	tag, err := r.pool.Exec(ctx, `
        UPDATE businesses
        SET ai_visibility_score = $2, ai_score_date = NOW(), updated_at = NOW()
        WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("update visibility score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBusinessNotFound
	}
	return nil
}

func stringOrNil(value *string) any {
	if value == nil {
		return nil
	}
	if strings.TrimSpace(*value) == "" {
		return nil
	}
	return *value
}

func floatOrNil(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func intOrNil(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}
