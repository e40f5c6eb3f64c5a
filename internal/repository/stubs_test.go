package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubPool struct {
	queryRowFunc func(ctx context.Context, query string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	execFunc     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	beginTxFunc  func(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

func (s *stubPool) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if s.queryRowFunc != nil {
		return s.queryRowFunc(ctx, query, args...)
	}
	return &stubRow{scan: func(dest ...any) error { return nil }}
}

func (s *stubPool) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if s.queryFunc != nil {
		return s.queryFunc(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

func (s *stubPool) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if s.execFunc != nil {
		return s.execFunc(ctx, query, args...)
	}
	return pgconn.CommandTag{}, errors.New("exec not implemented")
}

func (s *stubPool) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	if s.beginTxFunc != nil {
		return s.beginTxFunc(ctx, txOptions)
	}
	return nil, errors.New("begin tx not implemented")
}

type stubRow struct {
	scan func(dest ...any) error
}

func (s *stubRow) Scan(dest ...any) error {
	if s.scan != nil {
		return s.scan(dest...)
	}
	return nil
}

type stubRows struct {
	scans []func(dest ...any) error
	idx   int
	err   error
}

func (s *stubRows) Close() {}

func (s *stubRows) Err() error { return s.err }

func (s *stubRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (s *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (s *stubRows) Next() bool {
	if s.err != nil {
		return false
	}
	if s.idx < len(s.scans) {
		s.idx++
		return true
	}
	return false
}

func (s *stubRows) Scan(dest ...any) error {
	if s.idx == 0 || s.idx > len(s.scans) {
		return errors.New("scan called out of order")
	}
	return s.scans[s.idx-1](dest...)
}

func (s *stubRows) Values() ([]any, error) { return nil, nil }

func (s *stubRows) RawValues() [][]byte { return nil }

func (s *stubRows) Conn() *pgx.Conn { return nil }

// businessRow fills a full businesses row; a nil rating or category scans as NULL.
func businessRow(id uuid.UUID, name string, category *string, rating *float64) func(dest ...any) error {
	return func(dest ...any) error {
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		*dest[0].(*uuid.UUID) = id
		*dest[1].(*string) = name
		*dest[2].(*string) = "123 Main St, Lakeland, FL"
		if category != nil {
			*dest[3].(*sql.NullString) = sql.NullString{String: *category, Valid: true}
		}
		*dest[4].(*string) = "Lakeland"
		*dest[5].(*string) = "FL"
		*dest[6].(*sql.NullString) = sql.NullString{String: "+18635550100", Valid: true}
		if rating != nil {
			*dest[9].(*sql.NullFloat64) = sql.NullFloat64{Float64: *rating, Valid: true}
		}
		*dest[10].(*sql.NullInt64) = sql.NullInt64{Int64: 12, Valid: true}
		*dest[11].(*sql.NullFloat64) = sql.NullFloat64{Float64: 28.0395, Valid: true}
		*dest[12].(*sql.NullFloat64) = sql.NullFloat64{Float64: -81.9498, Valid: true}
		*dest[14].(*bool) = false
		*dest[17].(*time.Time) = created
		*dest[18].(*time.Time) = created
		return nil
	}
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
