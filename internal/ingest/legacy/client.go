package legacy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	contactsTable  = "contacts_master"
	contactsSelect = "id,company_name,email,phone,website_url,niche,status,source,full_name"
	// DefaultPageSize matches the single page the old seed pulled.
	DefaultPageSize = 1000
)

// ErrMissingCredentials indicates the legacy store URL or key is not configured.
var ErrMissingCredentials = errors.New("legacy contacts url and key must be set")

// Contact is one row of the legacy contacts table.
type Contact struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	WebsiteURL  string `json:"website_url"`
	Niche       string `json:"niche"`
	Status      string `json:"status"`
	Source      string `json:"source"`
	FullName    string `json:"full_name"`
}

// ContactSource lists legacy contacts that carry a company name.
type ContactSource interface {
	FetchContacts(ctx context.Context, limit int) ([]Contact, error)
}

// Client reads the legacy contacts table over its REST interface.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient builds a REST client for the legacy contacts store.
func NewClient(client *http.Client, baseURL, apiKey string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	apiKey = strings.TrimSpace(apiKey)
	if baseURL == "" || apiKey == "" {
		return nil, ErrMissingCredentials
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{client: client, baseURL: baseURL, apiKey: apiKey}, nil
}

// FetchContacts returns up to limit contacts whose company name is present.
func (c *Client) FetchContacts(ctx context.Context, limit int) ([]Contact, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	params := url.Values{}
	params.Set("select", contactsSelect)
	params.Set("company_name", "not.is.null")
	params.Set("limit", fmt.Sprint(limit))
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, contactsTable, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create contacts request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("contacts error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	contacts := make([]Contact, 0)
	if err := json.NewDecoder(resp.Body).Decode(&contacts); err != nil {
		return nil, fmt.Errorf("could not decode contacts response: %w", err)
	}
	return contacts, nil
}

var _ ContactSource = (*Client)(nil)
