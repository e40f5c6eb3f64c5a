package service

import (
	"context"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[\p{L}\p{N}.-]+\.(?:\p{L}{2,}|xn--[a-z0-9-]+)$`)
	idnaProfile  = idna.Lookup
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "US"
	mxLookupTimeout    = 3 * time.Second
)

// RawContact is the unvalidated contact block supplied by a form or an ingestion source.
type RawContact struct {
	Phone   string
	Email   string
	Website string
}

// Contact holds the normalised fields; nil means the raw value was absent or invalid.
type Contact struct {
	Phone   *string
	Email   *string
	Website *string
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// ContactCleaner encapsulates the contact cleaning and validation rules.
type ContactCleaner struct {
	DefaultRegion string
	dnsResolver   DNSResolver
}

// ContactCleanerOption configures optional dependencies.
type ContactCleanerOption func(*ContactCleaner)

// WithDNSResolver overrides the default DNS resolver. A nil resolver disables MX checks.
func WithDNSResolver(resolver DNSResolver) ContactCleanerOption {
	return func(c *ContactCleaner) {
		c.dnsResolver = resolver
	}
}

// NewContactCleaner builds a cleaner that validates email domains against DNS MX records.
func NewContactCleaner(defaultRegion string, opts ...ContactCleanerOption) *ContactCleaner {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	c := &ContactCleaner{
		DefaultRegion: region,
		dnsResolver:   systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Clean normalises every field of the contact block independently.
func (c *ContactCleaner) Clean(ctx context.Context, raw RawContact) Contact {
	var out Contact
	if phone, ok := c.CleanPhone(raw.Phone); ok {
		out.Phone = &phone
	}
	if email, ok := c.CleanEmail(ctx, raw.Email); ok {
		out.Email = &email
	}
	if website, ok := CleanWebsite(raw.Website); ok {
		out.Website = &website
	}
	return out
}

// CleanEmail lower-cases the address and checks syntax, domain labels and, when a
// resolver is configured, MX records. Internationalised domains are checked in their
// IDNA ASCII form.
func (c *ContactCleaner) CleanEmail(ctx context.Context, raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", false
	}
	domain := strings.SplitN(email, "@", 2)[1]
	if !isDomainValid(domain) {
		return "", false
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", false
	}
	if c.dnsResolver != nil && !c.hasMXRecord(ctx, asciiDomain) {
		return "", false
	}
	return email, true
}

// CleanPhone formats a phone number as E.164 for the cleaner's default region.
func (c *ContactCleaner) CleanPhone(raw string) (string, bool) {
	normalized := normalizePhone(raw, c.DefaultRegion)
	return normalized, normalized != ""
}

// CleanWebsite returns an absolute URL without tracking parameters.
func CleanWebsite(raw string) (string, bool) {
	u, err := sanitizeURL(raw)
	if err != nil {
		return "", false
	}
	stripTracking(u)
	return u.String(), true
}

func (c *ContactCleaner) hasMXRecord(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, mxLookupTimeout)
	defer cancel()
	records, err := c.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errInvalidURL
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errInvalidURL
	}
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	for _, part := range strings.Split(domain, ".") {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
