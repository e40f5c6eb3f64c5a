package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL must be set")

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL           string
	Port                  string
	AppEnv                string
	DefaultCity           string
	DefaultState          string
	PhoneRegion           string
	SiteBaseURL           string
	RequestTimeout        time.Duration
	RateLimitAutocomplete RateLimitConfig
	MigrateOnStart        bool

	GeminiAPIKey string
	GeminiModel  string
	EnrichRate   RateLimitConfig

	OverpassURL       string
	LegacyContactsURL string
	LegacyContactsKey string
}

// Load reads configuration from environment variables and applies sane defaults.
// A missing DATABASE_URL is fatal.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Port:              getEnv("PORT", "8080"),
		AppEnv:            getEnv("APP_ENV", "development"),
		DefaultCity:       getEnv("DEFAULT_CITY", "Lakeland"),
		DefaultState:      getEnv("DEFAULT_STATE", "FL"),
		PhoneRegion:       strings.ToUpper(getEnv("PHONE_REGION", "US")),
		SiteBaseURL:       strings.TrimRight(getEnv("SITE_BASE_URL", "https://lakeland-local-prod.vercel.app"), "/"),
		RequestTimeout:    parseDuration(getEnv("REQUEST_TIMEOUT", "5s"), 5*time.Second),
		MigrateOnStart:    parseBool(getEnv("MIGRATE_ON_START", "false")),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OverpassURL:       getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		LegacyContactsURL: os.Getenv("LEGACY_CONTACTS_URL"),
		LegacyContactsKey: os.Getenv("LEGACY_CONTACTS_KEY"),
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, ErrMissingDatabaseURL
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_AUTOCOMPLETE", "10/sec"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_AUTOCOMPLETE value: %w", err)
	}
	cfg.RateLimitAutocomplete = rl

	enrichRate, err := parseRateLimit(getEnv("ENRICH_RATE", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid ENRICH_RATE value: %w", err)
	}
	cfg.EnrichRate = enrichRate

	return cfg, nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseBool(input string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(input))
	return err == nil && v
}
