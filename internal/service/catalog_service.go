package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"location-dedup/internal/catalog"
	"location-dedup/internal/geo"
	"location-dedup/internal/models"
)

var ErrInvalidRadius = errors.New("service: radius must be positive")

// Query selects one page of the location catalog
type Query struct {
	Search   string
	SortBy   string
	Page     int
	PageSize int
}

// LocationFinder is implemented by sources that can look up a single location
type LocationFinder interface {
	FindLocationByID(ctx context.Context, id string) (*models.Location, error)
}

// NearbyFinder is implemented by sources with a spatial index
type NearbyFinder interface {
	FindLocationsWithin(ctx context.Context, lat, lon, radiusKm float64) ([]models.Location, error)
}

// CatalogService lists existing locations for browsing
type CatalogService struct {
	source LocationSource
}

// NewCatalogService creates a new catalog service
func NewCatalogService(source LocationSource) *CatalogService {
	return &CatalogService{source: source}
}

// List filters, sorts and pages the existing locations
func (s *CatalogService) List(ctx context.Context, q Query) (catalog.Page, error) {
	by, err := catalog.ParseSortBy(q.SortBy)
	if err != nil {
		return catalog.Page{}, err
	}

	locs, err := s.source.ExistingLocations(ctx)
	if err != nil {
		return catalog.Page{}, fmt.Errorf("service: failed to load locations: %w: %w", ErrUpstream, err)
	}

	filtered := catalog.Filter(locs, q.Search)
	catalog.Sort(filtered, by)
	return catalog.Paginate(filtered, q.Page, q.PageSize), nil
}

// Get returns the location with the given ID, or nil when there is none
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Location, error) {
	if finder, ok := s.source.(LocationFinder); ok {
		loc, err := finder.FindLocationByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("service: failed to find location: %w: %w", ErrUpstream, err)
		}
		return loc, nil
	}

	locs, err := s.source.ExistingLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load locations: %w: %w", ErrUpstream, err)
	}
	for i := range locs {
		if locs[i].ID == id {
			return &locs[i], nil
		}
	}
	return nil, nil
}

// Nearby returns the locations within radiusKm of the given point, nearest first
func (s *CatalogService) Nearby(ctx context.Context, lat, lon, radiusKm float64) ([]models.Location, error) {
	if !geo.Valid(lat, lon) {
		return nil, fmt.Errorf("%w: %v, %v", ErrInvalidCoordinates, lat, lon)
	}
	if !(radiusKm > 0) || math.IsInf(radiusKm, 1) {
		return nil, ErrInvalidRadius
	}

	if finder, ok := s.source.(NearbyFinder); ok {
		locs, err := finder.FindLocationsWithin(ctx, lat, lon, radiusKm)
		if err != nil {
			return nil, fmt.Errorf("service: failed to execute spatial query: %w: %w", ErrUpstream, err)
		}
		return locs, nil
	}

	locs, err := s.source.ExistingLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load locations: %w: %w", ErrUpstream, err)
	}

	origin := geo.Point{Lat: lat, Lon: lon}
	type hit struct {
		loc models.Location
		km  float64
	}
	var hits []hit
	for _, l := range locs {
		if !l.HasCoordinates() {
			continue
		}
		if km := geo.DistanceKm(origin, geo.Point{Lat: *l.Latitude, Lon: *l.Longitude}); km <= radiusKm {
			hits = append(hits, hit{loc: l, km: km})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].km < hits[j].km })

	out := make([]models.Location, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.loc)
	}
	return out, nil
}
