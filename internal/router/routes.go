package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/octobees/localfinds/internal/config"
	"github.com/octobees/localfinds/internal/handler"
	middlewarepkg "github.com/octobees/localfinds/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Businesses *handler.BusinessesHandler
	Claims     *handler.ClaimsHandler
	Sitemap    *handler.SitemapHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.GET("/businesses", handlers.Businesses.List)
	e.GET("/businesses/count", handlers.Businesses.Count)
	e.GET("/businesses/:id", handlers.Businesses.Get)
	e.GET("/categories", handlers.Businesses.Categories)
	e.GET("/search", handlers.Businesses.Search)
	e.GET("/api/search", handlers.Businesses.Autocomplete, middlewarepkg.ClientRateLimiter(cfg.RateLimitAutocomplete, handler.AutocompleteRateLimited))

	if handlers.Claims != nil {
		e.POST("/claims", handlers.Claims.Create)
	}
	if handlers.Sitemap != nil {
		e.GET("/sitemap.xml", handlers.Sitemap.Sitemap)
	}
}
