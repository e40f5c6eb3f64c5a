package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/localfinds/internal/entity"
)

// ClaimsRepository persists claim-listing leads.
type ClaimsRepository interface {
	Create(ctx context.Context, claim *entity.ClaimRequest) error
}

// PGXClaimsRepository implements ClaimsRepository using pgx.
type PGXClaimsRepository struct {
	pool pgxPool
}

// NewPGXClaimsRepository wires a pgx backed claims repository.
func NewPGXClaimsRepository(pool *pgxpool.Pool) *PGXClaimsRepository {
	return &PGXClaimsRepository{pool: pool}
}

// Create inserts the claim and fills in the generated id, status and timestamp.
// A business id with no matching listing yields ErrBusinessNotFound.
func (r *PGXClaimsRepository) Create(ctx context.Context, claim *entity.ClaimRequest) error {
	if claim == nil {
		return fmt.Errorf("claim payload is nil")
	}

	query := `
        INSERT INTO claim_requests (business_id, business_name, owner_name, email, phone, message)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, status, created_at`

	var businessID any
	if claim.BusinessID != nil {
		businessID = *claim.BusinessID
	}

	err := r.pool.QueryRow(ctx, query,
		businessID,
		claim.BusinessName,
		claim.OwnerName,
		claim.Email,
		claim.Phone,
		stringOrNil(claim.Message),
	).Scan(&claim.ID, &claim.Status, &claim.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: %v", ErrBusinessNotFound, pgErr)
		}
		return fmt.Errorf("insert claim request: %w", err)
	}
	return nil
}
