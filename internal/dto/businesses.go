package dto

import "github.com/octobees/localfinds/internal/entity"

// SearchFilter contains the free-text and category filters for the search endpoint.
type SearchFilter struct {
	Query    string
	Category string
	Limit    int
}

// AutocompleteResponse is the body of the autocomplete endpoint.
type AutocompleteResponse struct {
	Categories []entity.CategoryCount      `json:"categories"`
	Businesses []entity.BusinessSuggestion `json:"businesses"`
}

// DistanceInfo describes how far a business is from caller-supplied coordinates.
type DistanceInfo struct {
	Miles         float64 `json:"miles"`
	Label         string  `json:"label"`
	DirectionsURL string  `json:"directions_url"`
}

// BusinessDetail wraps a business with optional presentation extras.
type BusinessDetail struct {
	Business      entity.Business `json:"business"`
	Distance      *DistanceInfo   `json:"distance,omitempty"`
	DirectionsURL string          `json:"directions_url"`
}

// CountResponse carries the live business count.
type CountResponse struct {
	Total int `json:"total"`
}

// EmptyAutocomplete returns a response whose lists encode as [] rather than null.
func EmptyAutocomplete() AutocompleteResponse {
	return AutocompleteResponse{
		Categories: []entity.CategoryCount{},
		Businesses: []entity.BusinessSuggestion{},
	}
}
