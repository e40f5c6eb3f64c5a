package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/octobees/localfinds/internal/entity"
	"github.com/octobees/localfinds/internal/service/scoring"
)

// ScoreStore is the slice of the business writer needed to recompute visibility scores.
type ScoreStore interface {
	ListForEnrichment(ctx context.Context, includeSummarised bool, limit int) ([]entity.Business, error)
	UpdateVisibilityScore(ctx context.Context, id uuid.UUID, score int) error
}

// RescoreSummary reports the outcome of a rescoring pass.
type RescoreSummary struct {
	Scored  int
	Skipped int
	Failed  int
}

// RescoreService recomputes listing visibility scores from stored data.
type RescoreService struct {
	store  ScoreStore
	logger *slog.Logger
}

// NewRescoreService creates a new instance of RescoreService.
func NewRescoreService(store ScoreStore, logger *slog.Logger) *RescoreService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RescoreService{store: store, logger: logger}
}

// Rescore scores every listing; per-listing write failures are logged and counted.
// Listings whose stored score already matches are skipped.
func (s *RescoreService) Rescore(ctx context.Context, limit int) (RescoreSummary, error) {
	var summary RescoreSummary

	businesses, err := s.store.ListForEnrichment(ctx, true, limit)
	if err != nil {
		return summary, fmt.Errorf("load businesses for rescoring: %w", err)
	}

	for _, b := range businesses {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		result := scoring.ComputeScore(scoring.FromBusiness(b))
		if b.AIVisibilityScore != nil && *b.AIVisibilityScore == result.Total {
			summary.Skipped++
			continue
		}
		if err := s.store.UpdateVisibilityScore(ctx, b.ID, result.Total); err != nil {
			summary.Failed++
			s.logger.WarnContext(ctx, "update visibility score failed",
				slog.String("business_id", b.ID.String()),
				slog.Any("error", err),
			)
			continue
		}
		summary.Scored++
		s.logger.DebugContext(ctx, "visibility score updated",
			slog.String("business_id", b.ID.String()),
			slog.Int("score", result.Total),
			slog.Any("breakdown", result.Breakdown),
		)
	}

	return summary, nil
}
