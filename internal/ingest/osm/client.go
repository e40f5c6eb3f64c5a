package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Overpass interpreter.
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

// BoundingBox delimits the area queried from Overpass, in degrees.
type BoundingBox struct {
	South float64
	West  float64
	North float64
	East  float64
}

// LakelandBBox covers roughly a 20 mile radius around Lakeland, FL.
var LakelandBBox = BoundingBox{South: 27.85, West: -82.15, North: 28.20, East: -81.75}

// Center is the computed centroid Overpass attaches to ways.
type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Element is one node or way returned by Overpass.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *Center           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

// Coordinates returns the node position, falling back to the way center.
func (e Element) Coordinates() (lat, lng *float64) {
	if e.Lat != nil && e.Lon != nil {
		return e.Lat, e.Lon
	}
	if e.Center != nil {
		la, lo := e.Center.Lat, e.Center.Lon
		return &la, &lo
	}
	return nil, nil
}

// Fetcher retrieves raw map elements for an area.
type Fetcher interface {
	FetchElements(ctx context.Context, box BoundingBox) ([]Element, error)
}

// Client queries an Overpass interpreter endpoint.
type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient builds an Overpass client. An empty endpoint selects DefaultEndpoint.
func NewClient(client *http.Client, endpoint string) *Client {
	if client == nil {
		client = &http.Client{Timeout: 3 * time.Minute}
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{client: client, endpoint: endpoint}
}

// FetchElements posts the business query for box and decodes the element list.
func (c *Client) FetchElements(ctx context.Context, box BoundingBox) ([]Element, error) {
	form := url.Values{"data": {BuildQuery(box)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("overpass error: %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload struct {
		Elements []Element `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("could not decode overpass response: %w", err)
	}
	if payload.Elements == nil {
		payload.Elements = []Element{}
	}
	return payload.Elements, nil
}

// BuildQuery renders the Overpass QL selecting named amenities, shops, tourism and leisure features.
func BuildQuery(box BoundingBox) string {
	area := fmt.Sprintf("(%g,%g,%g,%g)", box.South, box.West, box.North, box.East)
	selectors := []string{
		`node["amenity"]["name"]`,
		`node["shop"]["name"]`,
		`node["tourism"]["name"]`,
		`node["leisure"]["name"]`,
		`way["amenity"]["name"]`,
		`way["shop"]["name"]`,
	}

	var sb strings.Builder
	sb.WriteString("[out:json][timeout:120];\n(\n")
	for _, sel := range selectors {
		sb.WriteString("  ")
		sb.WriteString(sel)
		sb.WriteString(area)
		sb.WriteString(";\n")
	}
	sb.WriteString(");\nout center body;\n")
	return sb.String()
}

var _ Fetcher = (*Client)(nil)
