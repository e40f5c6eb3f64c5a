package entity

import (
	"time"

	"github.com/google/uuid"
)

// Business represents a listing stored in the directory.
type Business struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	Address           string     `json:"address"`
	Category          *string    `json:"category,omitempty"`
	City              string     `json:"city"`
	State             string     `json:"state"`
	Phone             *string    `json:"phone,omitempty"`
	Email             *string    `json:"email,omitempty"`
	WebsiteURL        *string    `json:"website_url,omitempty"`
	Rating            *float64   `json:"rating,omitempty"`
	TotalRatings      *int       `json:"total_ratings,omitempty"`
	Lat               *float64   `json:"lat,omitempty"`
	Lng               *float64   `json:"lng,omitempty"`
	VibeSummary       *string    `json:"vibe_summary,omitempty"`
	ClaimedStatus     bool       `json:"claimed_status"`
	AIVisibilityScore *int       `json:"ai_visibility_score,omitempty"`
	AIScoreDate       *time.Time `json:"ai_score_date,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (b Business) HasCoordinates() bool {
	return b.Lat != nil && b.Lng != nil
}

// CategoryCount is one row of the category aggregation.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// BusinessSuggestion is the reduced projection rendered in the autocomplete dropdown.
type BusinessSuggestion struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category *string   `json:"category"`
	Rating   *float64  `json:"rating"`
	Address  string    `json:"address"`
}

// SitemapEntry identifies a business page and when it last changed.
type SitemapEntry struct {
	ID        uuid.UUID
	UpdatedAt time.Time
}
