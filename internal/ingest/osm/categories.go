package osm

import (
	"fmt"
	"strings"
)

// OtherCategory is assigned to named features whose tag value has no mapping.
const OtherCategory = "Other"

// categoryKeys lists the tag keys consulted for a category, in precedence order.
var categoryKeys = []string{"amenity", "shop", "tourism", "leisure"}

var categoryByTag = map[string]string{
	// amenity
	"restaurant":       "Restaurant",
	"cafe":             "Restaurant",
	"fast_food":        "Restaurant",
	"bar":              "Restaurant",
	"pub":              "Restaurant",
	"food_court":       "Restaurant",
	"ice_cream":        "Restaurant",
	"bank":             "Financial Services",
	"atm":              "Financial Services",
	"pharmacy":         "Health & Medical",
	"hospital":         "Health & Medical",
	"clinic":           "Health & Medical",
	"doctors":          "Health & Medical",
	"dentist":          "Health & Medical",
	"veterinary":       "Pets",
	"school":           "Education",
	"university":       "Education",
	"college":          "Education",
	"library":          "Education",
	"kindergarten":     "Education",
	"childcare":        "Education",
	"place_of_worship": "Religious Organizations",
	"fuel":             "Automotive",
	"car_repair":       "Automotive",
	"car_wash":         "Automotive",
	"car_rental":       "Automotive",
	"parking":          "Automotive",
	"hotel":            "Hotels & Travel",
	"motel":            "Hotels & Travel",
	"guest_house":      "Hotels & Travel",
	"post_office":      "Public Services",
	"police":           "Public Services",
	"fire_station":     "Public Services",
	"townhall":         "Public Services",
	"community_centre": "Public Services",
	"cinema":           "Arts & Entertainment",
	"theatre":          "Arts & Entertainment",
	"nightclub":        "Nightlife",
	"gym":              "Fitness & Instruction",

	// shop
	"supermarket":   "Shopping",
	"convenience":   "Shopping",
	"clothes":       "Shopping",
	"electronics":   "Shopping",
	"books":         "Shopping",
	"florist":       "Shopping",
	"gift":          "Shopping",
	"jewelry":       "Shopping",
	"shoes":         "Shopping",
	"alcohol":       "Shopping",
	"tobacco":       "Shopping",
	"mobile_phone":  "Shopping",
	"beauty":        "Beauty & Spas",
	"hairdresser":   "Beauty & Spas",
	"tattoo":        "Beauty & Spas",
	"massage":       "Beauty & Spas",
	"hardware":      "Home Services",
	"furniture":     "Home Services",
	"laundry":       "Home Services",
	"dry_cleaning":  "Home Services",
	"garden_centre": "Home Services",
	"pet":           "Pets",
	"car":           "Automotive",
	"car_parts":     "Automotive",
	"tyres":         "Automotive",
	"bakery":        "Restaurant",
	"butcher":       "Restaurant",
	"deli":          "Restaurant",
	"greengrocer":   "Restaurant",
	"optician":      "Health & Medical",

	// tourism
	"museum":     "Arts & Entertainment",
	"gallery":    "Arts & Entertainment",
	"attraction": "Arts & Entertainment",
	"viewpoint":  "Arts & Entertainment",

	// leisure
	"fitness_centre": "Fitness & Instruction",
	"sports_centre":  "Fitness & Instruction",
	"swimming_pool":  "Fitness & Instruction",
	"golf_course":    "Active Life",
	"park":           "Active Life",
	"playground":     "Active Life",
	"marina":         "Active Life",
}

// MapCategory resolves the directory category for a feature's tags.
// It returns false when the feature carries none of the category keys or has no name.
func MapCategory(tags map[string]string) (string, bool) {
	for _, key := range categoryKeys {
		if category, ok := categoryByTag[tags[key]]; ok {
			return category, true
		}
	}
	if strings.TrimSpace(tags["name"]) == "" {
		return "", false
	}
	for _, key := range categoryKeys {
		if tags[key] != "" {
			return OtherCategory, true
		}
	}
	return "", false
}

// ExtractPhone returns the first populated phone tag.
func ExtractPhone(tags map[string]string) string {
	return firstTag(tags, "phone", "contact:phone", "phone:main")
}

// ExtractWebsite returns the first populated website tag.
func ExtractWebsite(tags map[string]string) string {
	return firstTag(tags, "website", "contact:website", "url")
}

// ExtractEmail returns the first populated email tag.
func ExtractEmail(tags map[string]string) string {
	return firstTag(tags, "email", "contact:email")
}

// ExtractAddress composes a one-line street address from addr:* tags.
// Features without a house number or street fall back to "<city>, <state>".
func ExtractAddress(tags map[string]string, defaultCity, defaultState string) string {
	var street []string
	if v := strings.TrimSpace(tags["addr:housenumber"]); v != "" {
		street = append(street, v)
	}
	if v := strings.TrimSpace(tags["addr:street"]); v != "" {
		street = append(street, v)
	}
	if len(street) == 0 {
		return fmt.Sprintf("%s, %s", defaultCity, defaultState)
	}

	city := valueOr(tags["addr:city"], defaultCity)
	state := valueOr(tags["addr:state"], defaultState)
	zip := strings.TrimSpace(tags["addr:postcode"])

	return strings.TrimSpace(fmt.Sprintf("%s, %s, %s %s", strings.Join(street, " "), city, state, zip))
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	return ""
}

func valueOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
