// Package geocoder resolves postal addresses to coordinates with the Google Maps Geocoding API.
package geocoder

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"googlemaps.github.io/maps"
)

type GoogleMapsGeocoder struct {
	client *maps.Client
}

// NewGoogleMapsGeocoder creates a geocoder for apiKey. Extra client options are passed through.
func NewGoogleMapsGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleMapsGeocoder, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("geocoder: failed to create maps client: %w", err)
	}

	return &GoogleMapsGeocoder{client: client}, nil
}

// Geocode returns the position of the best result for query. found is false when Google knows no match.
func (g *GoogleMapsGeocoder) Geocode(ctx context.Context, query string) (float64, float64, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, 0, false, nil
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return 0, 0, false, nil
		}
		return 0, 0, false, fmt.Errorf("geocoder: failed to geocode %q: %w", query, err)
	}
	if len(results) == 0 {
		return 0, 0, false, nil
	}

	loc := results[0].Geometry.Location
	log.Debug().Str("query", query).Float64("lat", loc.Lat).Float64("lon", loc.Lng).Msg("geocoded address")
	return loc.Lat, loc.Lng, true, nil
}
