package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/octobees/localfinds/internal/config"
	"github.com/octobees/localfinds/internal/entity"
)

// Store is the slice of the business writer needed for vibe enrichment.
type Store interface {
	ListForEnrichment(ctx context.Context, includeSummarised bool, limit int) ([]entity.Business, error)
	UpdateVibeSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// Summarizer writes a short vibe blurb for one listing.
type Summarizer interface {
	Summarize(ctx context.Context, name, category, address string) (string, error)
}

// Options selects which listings a run touches.
type Options struct {
	All    bool
	Limit  int
	DryRun bool
}

// Result pairs a listing with the summary generated for it.
type Result struct {
	ID      uuid.UUID
	Name    string
	Summary string
}

// Summary reports the outcome of an enrichment run.
type Summary struct {
	Candidates int
	Updated    int
	Skipped    int
	Results    []Result
}

// Enricher fills vibe summaries, pacing model calls with a token bucket.
type Enricher struct {
	store      Store
	summarizer Summarizer
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewEnricher wires an enricher. A nil limiter leaves calls unpaced.
func NewEnricher(store Store, summarizer Summarizer, limiter *rate.Limiter, logger *slog.Logger) *Enricher {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{store: store, summarizer: summarizer, limiter: limiter, logger: logger}
}

// Run generates summaries for the selected listings. A failed generation or write is
// logged and skipped; only loading the batch or context cancellation aborts the run.
func (e *Enricher) Run(ctx context.Context, opts Options) (Summary, error) {
	summary := Summary{Results: make([]Result, 0)}

	businesses, err := e.store.ListForEnrichment(ctx, opts.All, opts.Limit)
	if err != nil {
		return summary, fmt.Errorf("load businesses for enrichment: %w", err)
	}
	summary.Candidates = len(businesses)

	for _, b := range businesses {
		if err := e.limiter.Wait(ctx); err != nil {
			return summary, err
		}

		category := ""
		if b.Category != nil {
			category = *b.Category
		}
		vibe, err := e.summarizer.Summarize(ctx, b.Name, category, b.Address)
		if err != nil {
			summary.Skipped++
			e.logger.WarnContext(ctx, "vibe summary skipped",
				slog.String("business_id", b.ID.String()),
				slog.String("name", b.Name),
				slog.Any("error", err),
			)
			continue
		}

		if !opts.DryRun {
			if err := e.store.UpdateVibeSummary(ctx, b.ID, vibe); err != nil {
				summary.Skipped++
				e.logger.WarnContext(ctx, "store vibe summary failed",
					slog.String("business_id", b.ID.String()),
					slog.Any("error", err),
				)
				continue
			}
			summary.Updated++
		}
		summary.Results = append(summary.Results, Result{ID: b.ID, Name: b.Name, Summary: vibe})
	}

	return summary, nil
}

// LimiterFor spreads cfg.Requests calls evenly over cfg.Interval with a burst of one.
func LimiterFor(cfg config.RateLimitConfig) *rate.Limiter {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(cfg.Interval/time.Duration(cfg.Requests)), 1)
}
