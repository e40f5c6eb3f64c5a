package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/localfinds/internal/dto"
	"github.com/octobees/localfinds/internal/entity"
	"github.com/octobees/localfinds/internal/geo"
	"github.com/octobees/localfinds/internal/service"
)

// BusinessesHandler exposes the directory read endpoints.
type BusinessesHandler struct {
	service *service.BusinessesService
}

// NewBusinessesHandler creates a new handler instance.
func NewBusinessesHandler(service *service.BusinessesService) *BusinessesHandler {
	return &BusinessesHandler{service: service}
}

// List handles GET /businesses requests.
func (h *BusinessesHandler) List(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), service.DefaultRecentLimit)

	businesses, err := h.service.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list businesses")
	}
	return Collection(c, "businesses retrieved", businesses, len(businesses))
}

// Count handles GET /businesses/count requests.
func (h *BusinessesHandler) Count(c echo.Context) error {
	total := h.service.CountAll(c.Request().Context())
	return Success(c, http.StatusOK, "businesses counted", dto.CountResponse{Total: total})
}

// Get handles GET /businesses/:id requests. Optional lat/lng query parameters add a
// distance block relative to the caller.
func (h *BusinessesHandler) Get(c echo.Context) error {
	business, found, err := h.service.FetchByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load business")
	}
	if !found {
		return Error(c, http.StatusNotFound, "business not found")
	}

	return Success(c, http.StatusOK, "business retrieved", buildDetail(*business, callerOrigin(c)))
}

// Categories handles GET /categories requests.
func (h *BusinessesHandler) Categories(c echo.Context) error {
	categories, err := h.service.ListCategories(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list categories")
	}
	return Collection(c, "categories retrieved", categories, len(categories))
}

// Search handles GET /search requests.
func (h *BusinessesHandler) Search(c echo.Context) error {
	businesses, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to search businesses")
	}
	return Collection(c, "search results", businesses, len(businesses))
}

// Autocomplete handles GET /api/search requests. The body is the bare suggestion object,
// with empty lists on failure.
func (h *BusinessesHandler) Autocomplete(c echo.Context) error {
	resp, err := h.service.Autocomplete(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// AutocompleteRateLimited answers a throttled GET /api/search with empty suggestion lists.
func AutocompleteRateLimited(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, dto.EmptyAutocomplete())
}

func buildDetail(business entity.Business, origin *geo.Point) dto.BusinessDetail {
	var dest *geo.Point
	if business.HasCoordinates() {
		dest = &geo.Point{Lat: *business.Lat, Lng: *business.Lng}
	}

	detail := dto.BusinessDetail{
		Business:      business,
		DirectionsURL: geo.DirectionsURL(nil, dest, business.Address),
	}
	if origin != nil && dest != nil {
		miles := geo.DistanceMiles(*origin, *dest)
		detail.Distance = &dto.DistanceInfo{
			Miles:         miles,
			Label:         geo.FormatDistance(miles),
			DirectionsURL: geo.DirectionsURL(origin, dest, business.Address),
		}
	}
	return detail
}

func callerOrigin(c echo.Context) *geo.Point {
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("lat")), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(c.QueryParam("lng")), 64)
	if errLat != nil || errLng != nil {
		return nil
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}
	return &geo.Point{Lat: lat, Lng: lng}
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}
