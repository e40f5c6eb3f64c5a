package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/localfinds/internal/service"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

var staticPages = []sitemapPage{
	{Path: "/", ChangeFreq: "daily", Priority: "1.0"},
	{Path: "/search", ChangeFreq: "daily", Priority: "0.8"},
	{Path: "/categories", ChangeFreq: "weekly", Priority: "0.8"},
	{Path: "/claim", ChangeFreq: "monthly", Priority: "0.5"},
}

type sitemapPage struct {
	Path       string
	ChangeFreq string
	Priority   string
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapHandler renders the search-engine sitemap.
type SitemapHandler struct {
	service *service.BusinessesService
	baseURL string
	now     func() time.Time
}

// NewSitemapHandler creates a new handler instance.
func NewSitemapHandler(service *service.BusinessesService, baseURL string) *SitemapHandler {
	return &SitemapHandler{service: service, baseURL: baseURL, now: time.Now}
}

// Sitemap handles GET /sitemap.xml requests. Business pages are omitted when the store fails.
func (h *SitemapHandler) Sitemap(c echo.Context) error {
	today := h.now().UTC().Format("2006-01-02")

	set := urlSet{XMLNS: sitemapNamespace}
	for _, page := range staticPages {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        h.baseURL + page.Path,
			LastMod:    today,
			ChangeFreq: page.ChangeFreq,
			Priority:   page.Priority,
		})
	}

	entries, err := h.service.SitemapEntries(c.Request().Context())
	if err == nil {
		for _, entry := range entries {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:        h.baseURL + "/business/" + entry.ID.String(),
				LastMod:    entry.UpdatedAt.UTC().Format("2006-01-02"),
				ChangeFreq: "weekly",
				Priority:   "0.7",
			})
		}
	}

	body, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to render sitemap")
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationXMLCharsetUTF8, append([]byte(xml.Header), body...))
}
