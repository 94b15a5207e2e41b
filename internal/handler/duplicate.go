package handler

import (
	"context"
	"errors"
	"net/http"

	"location-dedup/internal/geo"
	"location-dedup/internal/models"
	"location-dedup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DuplicateHandler handles duplicate screening requests
type DuplicateHandler struct {
	service DuplicateService
}

// DuplicateService interface for dependency injection
type DuplicateService interface {
	Check(context.Context, models.Location) (*models.DuplicateReport, error)
	MatchAddress(context.Context, string, *geo.Point) ([]models.MatchCandidate, error)
}

// NewDuplicateHandler creates a new duplicate handler
func NewDuplicateHandler(svc DuplicateService) *DuplicateHandler {
	return &DuplicateHandler{service: svc}
}

// CheckDuplicates godoc
// @Summary      Check a new location for duplicates
// @Description  Scores the candidate against every existing location and returns the best matches.
// @Tags         duplicates
// @Accept       json
// @Produce      json
// @Param        candidate  body      models.Location  true  "Candidate location"
// @Success      200        {object}  models.DuplicateReport
// @Failure      400        {object}  map[string]string
// @Failure      502        {object}  map[string]string
// @Router       /api/v1/duplicates/check [post]
func (h *DuplicateHandler) CheckDuplicates(c *gin.Context) {
	var candidate models.Location
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.service.Check(c.Request.Context(), candidate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

type addressMatchRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// MatchAddress godoc
// @Summary      Match a free-text address
// @Description  Asks the address service for the three best matching database rows.
// @Tags         duplicates
// @Accept       json
// @Produce      json
// @Param        request  body      addressMatchRequest  true  "Query and optional origin"
// @Success      200      {array}   models.MatchCandidate
// @Failure      400      {object}  map[string]string
// @Failure      502      {object}  map[string]string
// @Router       /api/v1/address-matches [post]
func (h *DuplicateHandler) MatchAddress(c *gin.Context) {
	var req addressMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var origin *geo.Point
	if req.Latitude != nil && req.Longitude != nil {
		origin = &geo.Point{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	matches, err := h.service.MatchAddress(c.Request.Context(), req.Query, origin)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyCandidate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "candidate location is empty"})
	case errors.Is(err, service.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": "query cannot be empty"})
	case errors.Is(err, service.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
	case errors.Is(err, service.ErrUpstream):
		log.Error().Err(err).Str("path", c.FullPath()).Msg("upstream failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": "address service unavailable"})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
