package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
	"github.com/octobees/localfinds/internal/repository"
)

// ErrInvalidClaim is the sentinel wrapped by every ClaimValidationError.
var ErrInvalidClaim = errors.New("invalid claim request")

var errInvalidURL = errors.New("invalid url")

const maxClaimMessageLength = 2000

// ClaimValidationError names the offending field of a claim submission.
type ClaimValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ClaimValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap lets callers match ErrInvalidClaim.
func (e ClaimValidationError) Unwrap() error {
	return ErrInvalidClaim
}

// ClaimsService records requests from owners who want to claim a listing.
type ClaimsService struct {
	repo    repository.ClaimsRepository
	cleaner *ContactCleaner
}

// NewClaimsService creates a new instance of ClaimsService.
func NewClaimsService(repo repository.ClaimsRepository, cleaner *ContactCleaner) *ClaimsService {
	return &ClaimsService{repo: repo, cleaner: cleaner}
}

// Submit validates the request and stores it as a pending claim.
func (s *ClaimsService) Submit(ctx context.Context, req dto.ClaimListingRequest) (*entity.ClaimRequest, error) {
	claim := &entity.ClaimRequest{
		BusinessName: strings.TrimSpace(req.BusinessName),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		Status:       entity.ClaimStatusPending,
	}
	if claim.BusinessName == "" {
		return nil, ClaimValidationError{Field: "business_name", Message: "is required"}
	}
	if claim.OwnerName == "" {
		return nil, ClaimValidationError{Field: "owner_name", Message: "is required"}
	}

	if rawID := strings.TrimSpace(req.BusinessID); rawID != "" {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, ClaimValidationError{Field: "business_id", Message: "must be a valid id"}
		}
		claim.BusinessID = &id
	}

	email, ok := s.cleaner.CleanEmail(ctx, req.Email)
	if !ok {
		return nil, ClaimValidationError{Field: "email", Message: "must be a deliverable email address"}
	}
	claim.Email = email

	phone, ok := s.cleaner.CleanPhone(req.Phone)
	if !ok {
		return nil, ClaimValidationError{Field: "phone", Message: "must be a valid phone number"}
	}
	claim.Phone = phone

	if message := strings.TrimSpace(req.Message); message != "" {
		if utf8.RuneCountInString(message) > maxClaimMessageLength {
			return nil, ClaimValidationError{Field: "message", Message: fmt.Sprintf("must be at most %d characters", maxClaimMessageLength)}
		}
		claim.Message = &message
	}

	if err := s.repo.Create(ctx, claim); err != nil {
		if errors.Is(err, repository.ErrBusinessNotFound) {
			return nil, ClaimValidationError{Field: "business_id", Message: "does not match a listing"}
		}
		return nil, fmt.Errorf("submit claim: %w", err)
	}
	return claim, nil
}
