package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"location-dedup/internal/catalog"
	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler handles location listing requests
type CatalogHandler struct {
	service CatalogService
}

// CatalogService interface for dependency injection
type CatalogService interface {
	List(context.Context, service.Query) (catalog.Page, error)
	Get(context.Context, string) (*models.Location, error)
	Nearby(context.Context, float64, float64, float64) ([]models.Location, error)
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(svc CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// ListLocations godoc
// @Summary      List existing locations
// @Tags         locations
// @Produce      json
// @Param        search     query     string  false  "Substring over name, address, city, country and postal code"
// @Param        sort       query     string  false  "name, city or country"
// @Param        page       query     int     false  "1-based page"
// @Param        page_size  query     int     false  "Page size, default 20"
// @Success      200        {object}  catalog.Page
// @Failure      400        {object}  map[string]string
// @Failure      502        {object}  map[string]string
// @Router       /api/v1/locations [get]
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	page, err := intQuery(c, "page")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	pageSize, err := intQuery(c, "page_size")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page_size"})
		return
	}

	result, err := h.service.List(c.Request.Context(), service.Query{
		Search:   c.Query("search"),
		SortBy:   c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidSort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be one of name, city, country"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLocation godoc
// @Summary      Get one existing location
// @Tags         locations
// @Produce      json
// @Param        id   path      string  true  "Location ID"
// @Success      200  {object}  models.Location
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/locations/{id} [get]
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	location, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if location == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}

	c.JSON(http.StatusOK, location)
}

// NearbyLocations godoc
// @Summary      List existing locations around a point
// @Tags         locations
// @Produce      json
// @Param        lat        query     number  true   "Latitude"
// @Param        lon        query     number  true   "Longitude"
// @Param        radius_km  query     number  false  "Search radius, default 1 km"
// @Success      200        {array}   models.Location
// @Failure      400        {object}  map[string]string
// @Failure      502        {object}  map[string]string
// @Router       /api/v1/locations/nearby [get]
func (h *CatalogHandler) NearbyLocations(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")

	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lon'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	radius := defaultNearbyRadiusKm
	if r := c.Query("radius_km"); r != "" {
		radius, err = strconv.ParseFloat(r, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
		if math.IsNaN(radius) || math.IsInf(radius, 0) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius format"})
			return
		}
	}

	locations, err := h.service.Nearby(c.Request.Context(), lat, lon, radius)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRadius) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "radius must be positive"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, locations)
}

const defaultNearbyRadiusKm = 1.0

// intQuery parses an optional positive integer parameter; absent means 0.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, errors.New("invalid " + name)
	}
	return v, nil
}
