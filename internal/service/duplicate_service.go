package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"location-dedup/internal/addressapi"
	"location-dedup/internal/countrycode"
	"location-dedup/internal/duplicate"
	"location-dedup/internal/geo"
	"location-dedup/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyCandidate      = errors.New("service: candidate location is empty")
	ErrEmptyQuery          = errors.New("service: query cannot be empty")
	ErrInvalidCoordinates  = errors.New("service: invalid coordinates")
	ErrUpstream            = errors.New("service: upstream unavailable")
	ErrAddressMatchMissing = errors.New("service: address matching is not configured")
)

// LocationSource provides the existing locations a candidate is screened against
type LocationSource interface {
	ExistingLocations(ctx context.Context) ([]models.Location, error)
}

// AddressMatcher queries the remote address matcher
type AddressMatcher interface {
	MatchAddress(ctx context.Context, query string) ([]models.AddressMatch, error)
}

// Geocoder resolves a free-text address to coordinates
type Geocoder interface {
	Geocode(ctx context.Context, query string) (lat, lon float64, found bool, err error)
}

// DuplicateService screens new locations for duplicates
type DuplicateService struct {
	source    LocationSource
	matcher   *duplicate.Matcher
	addresses AddressMatcher
	geocoder  Geocoder
	now       func() time.Time
}

// Option customises a DuplicateService
type Option func(*DuplicateService)

// WithAddressMatcher enables MatchAddress
func WithAddressMatcher(am AddressMatcher) Option {
	return func(s *DuplicateService) { s.addresses = am }
}

// WithGeocoder fills missing candidate coordinates before matching
func WithGeocoder(g Geocoder) Option {
	return func(s *DuplicateService) { s.geocoder = g }
}

// NewDuplicateService creates a new duplicate service. A nil matcher means the default one.
func NewDuplicateService(source LocationSource, matcher *duplicate.Matcher, opts ...Option) *DuplicateService {
	if matcher == nil {
		matcher = duplicate.NewMatcher()
	}
	s := &DuplicateService{
		source:  source,
		matcher: matcher,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check screens a candidate against every existing location and reports the likely duplicates
func (s *DuplicateService) Check(ctx context.Context, candidate models.Location) (*models.DuplicateReport, error) {
	if candidate.IsEmpty() {
		return nil, ErrEmptyCandidate
	}
	if (candidate.Latitude == nil) != (candidate.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be given together", ErrInvalidCoordinates)
	}
	if candidate.HasCoordinates() && !geo.Valid(*candidate.Latitude, *candidate.Longitude) {
		return nil, fmt.Errorf("%w: %v, %v", ErrInvalidCoordinates, *candidate.Latitude, *candidate.Longitude)
	}

	if candidate.CountryCode == "" {
		if code, ok := countrycode.Lookup(candidate.Country); ok {
			candidate.CountryCode = code
		}
	}

	if !candidate.HasCoordinates() && s.geocoder != nil {
		s.geocode(ctx, &candidate)
	}

	existing, err := s.source.ExistingLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load existing locations: %w: %w", ErrUpstream, err)
	}

	matches := s.matcher.FindDuplicates(candidate, existing)

	log.Debug().
		Str("customer_name", candidate.Name).
		Int("existing", len(existing)).
		Int("matches", len(matches)).
		Msg("duplicate check completed")

	return &models.DuplicateReport{
		ID:        uuid.NewString(),
		Candidate: candidate,
		Matches:   matches,
		Unique:    len(matches) == 0,
		CheckedAt: s.now().UTC(),
	}, nil
}

func (s *DuplicateService) geocode(ctx context.Context, candidate *models.Location) {
	query := addressapi.FormatQuery(models.Location{
		Address:    candidate.Address,
		City:       candidate.City,
		PostalCode: candidate.PostalCode,
		Country:    candidate.Country,
	})
	if query == "" {
		return
	}

	lat, lon, found, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("geocoding failed, continuing without coordinates")
		return
	}
	if !found || !geo.Valid(lat, lon) {
		return
	}
	candidate.Latitude = models.Coord(lat)
	candidate.Longitude = models.Coord(lon)
}

// MatchAddress asks the remote matcher for rows resembling query and returns the best few.
// When origin is set, matches with coordinates get their distance to it.
func (s *DuplicateService) MatchAddress(ctx context.Context, query string, origin *geo.Point) ([]models.MatchCandidate, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if s.addresses == nil {
		return nil, ErrAddressMatchMissing
	}
	if origin != nil && !geo.Valid(origin.Lat, origin.Lon) {
		return nil, fmt.Errorf("%w: %v, %v", ErrInvalidCoordinates, origin.Lat, origin.Lon)
	}

	results, err := s.addresses.MatchAddress(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to match address: %w: %w", ErrUpstream, err)
	}

	matches := addressapi.ToMatchCandidates(results)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if len(matches) > duplicate.DefaultMaxResults {
		matches = matches[:duplicate.DefaultMaxResults]
	}

	if origin != nil {
		for i := range matches {
			loc := matches[i].Location
			if loc.HasCoordinates() {
				d := geo.DistanceKm(*origin, geo.Point{Lat: *loc.Latitude, Lon: *loc.Longitude})
				matches[i].DistanceKm = &d
			}
		}
	}
	return matches, nil
}
