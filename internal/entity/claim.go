package entity

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatusPending marks a claim request awaiting owner verification.
const ClaimStatusPending = "pending"

// ClaimRequest is a lead submitted by someone who wants to claim a listing.
type ClaimRequest struct {
	ID           uuid.UUID  `json:"id"`
	BusinessID   *uuid.UUID `json:"business_id,omitempty"`
	BusinessName string     `json:"business_name"`
	OwnerName    string     `json:"owner_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Message      *string    `json:"message,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
}
