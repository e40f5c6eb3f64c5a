package scoring

import (
	"net/url"
	"strings"
	"unicode"

	"github.com/octobees/localfinds/internal/entity"
)

const (
	categoryContact    = "contact_completeness"
	categoryWeb        = "web_presence"
	categoryReputation = "reputation"
	categoryProfile    = "listing_profile"
)

var freeHostingDomains = []string{
	"wordpress.com",
	"blogspot.com",
	"wixsite.com",
	"weebly.com",
	"squarespace.com",
	"godaddysites.com",
	"business.site",
	"facebook.com",
	"notion.site",
	"googlepages.com",
}

// ListingFeatures captures the listing signals used for the visibility score.
type ListingFeatures struct {
	Phone          string
	Email          string
	Website        string
	Address        string
	Category       string
	VibeSummary    string
	Rating         *float64
	TotalRatings   *int
	HasCoordinates bool
}

// ScoreResult reports the aggregate score and the per-category breakdown.
type ScoreResult struct {
	Total     int
	Breakdown map[string]int
}

// FromBusiness extracts the scoring signals from a stored listing.
func FromBusiness(b entity.Business) ListingFeatures {
	return ListingFeatures{
		Phone:          deref(b.Phone),
		Email:          deref(b.Email),
		Website:        deref(b.WebsiteURL),
		Address:        b.Address,
		Category:       deref(b.Category),
		VibeSummary:    deref(b.VibeSummary),
		Rating:         b.Rating,
		TotalRatings:   b.TotalRatings,
		HasCoordinates: b.HasCoordinates(),
	}
}

// ComputeScore evaluates the provided features and returns a 0-100 score with its breakdown.
func ComputeScore(input ListingFeatures) ScoreResult {
	breakdown := map[string]int{
		categoryContact:    scoreContactCompleteness(input),
		categoryWeb:        scoreWebPresence(input),
		categoryReputation: scoreReputation(input),
		categoryProfile:    scoreListingProfile(input),
	}

	total := 0
	for _, value := range breakdown {
		total += value
	}

	return ScoreResult{
		Total:     total,
		Breakdown: breakdown,
	}
}

func scoreContactCompleteness(input ListingFeatures) int {
	score := 0
	if strings.TrimSpace(input.Phone) != "" {
		score += 15
	}
	if strings.TrimSpace(input.Email) != "" {
		score += 15
	}
	return score
}

func scoreWebPresence(input ListingFeatures) int {
	site := strings.ToLower(strings.TrimSpace(input.Website))
	if site == "" {
		return 0
	}
	score := 10
	if strings.HasPrefix(site, "https://") {
		score += 10
	}
	if highQualityDomain(site) {
		score += 10
	}
	return score
}

func scoreReputation(input ListingFeatures) int {
	score := 0
	if input.Rating != nil {
		switch r := *input.Rating; {
		case r >= 4.5:
			score += 10
		case r >= 4.0:
			score += 7
		case r >= 3.0:
			score += 4
		}
	}
	if input.TotalRatings != nil {
		switch n := *input.TotalRatings; {
		case n >= 50:
			score += 10
		case n >= 10:
			score += 6
		case n >= 1:
			score += 3
		}
	}
	return score
}

func scoreListingProfile(input ListingFeatures) int {
	score := 0
	if hasCompleteAddress(input.Address) {
		score += 5
	}
	if strings.TrimSpace(input.Category) != "" {
		score += 5
	}
	if input.HasCoordinates {
		score += 5
	}
	if strings.TrimSpace(input.VibeSummary) != "" {
		score += 5
	}
	return score
}

func hasCompleteAddress(raw string) bool {
	addr := strings.TrimSpace(raw)
	if len(addr) < 10 {
		return false
	}
	var hasLetter, hasDigit bool
	separatorCount := 0
	for _, r := range addr {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r == ',':
			separatorCount++
		}
	}
	return hasLetter && hasDigit && separatorCount >= 1
}

func highQualityDomain(raw string) bool {
	domain := extractDomain(raw)
	if domain == "" {
		return false
	}
	for _, bad := range freeHostingDomains {
		if domain == bad || strings.HasSuffix(domain, "."+bad) {
			return false
		}
	}
	return strings.Count(domain, ".") >= 1
}

func extractDomain(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	lowered := strings.ToLower(raw)
	if !strings.Contains(lowered, "://") {
		lowered = "https://" + lowered
	}
	parsed, err := url.Parse(lowered)
	if err != nil {
		return ""
	}
	host := strings.TrimSpace(strings.ToLower(parsed.Hostname()))
	host = strings.TrimPrefix(host, "www.")
	return host
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
