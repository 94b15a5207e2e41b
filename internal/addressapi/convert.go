package addressapi

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"location-dedup/internal/geo"
	"location-dedup/internal/models"

	"github.com/google/uuid"
)

// FormatQuery joins the non-empty descriptive fields of loc into one free-text query.
func FormatQuery(loc models.Location) string {
	var parts []string
	for _, p := range []string{loc.Name, loc.Address, loc.City, loc.PostalCode, loc.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ToLocation converts a database row into a Location with a fresh api-prefixed ID.
func ToLocation(rec models.DatabaseLocation) models.Location {
	name := rec.Name1
	if rec.Name2 != nil && *rec.Name2 != "" {
		name += " " + *rec.Name2
	}

	country := rec.Country
	if country == "D" {
		country = "Germany"
	}

	now := time.Now()
	loc := models.Location{
		ID:         "api-" + uuid.NewString(),
		Name:       name,
		Address:    rec.Street,
		City:       rec.City,
		PostalCode: rec.PostalCode,
		Country:    country,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The service publishes the two coordinate columns swapped.
	lat, lon := rec.Longitude, rec.Latitude
	if geo.Finite(lat, lon) {
		loc.Latitude = models.Coord(lat)
		loc.Longitude = models.Coord(lon)
	}
	return loc
}

// ToMatchCandidates turns address-service hits into match candidates scored by the service's confidence.
func ToMatchCandidates(results []models.AddressMatch) []models.MatchCandidate {
	out := make([]models.MatchCandidate, 0, len(results))
	for _, r := range results {
		reasons := []string{fmt.Sprintf("%s%% confidence match", formatPercent(r.ConfidencePercent))}
		if r.Name1 != "" {
			reasons = append(reasons, "Company name match")
		} else {
			reasons = append(reasons, "Address match")
		}
		if r.City != "" {
			reasons = append(reasons, "Located in "+r.City)
		} else {
			reasons = append(reasons, "Geographic match")
		}

		out = append(out, models.MatchCandidate{
			Location:     ToLocation(r.DatabaseLocation),
			Similarity:   r.ConfidencePercent / 100,
			MatchReasons: reasons,
		})
	}
	return out
}

func formatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

// Source adapts the remote database as the set of existing locations to screen against.
type Source struct {
	client *Client
}

// NewSource creates a Source backed by client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

// ExistingLocations fetches and converts every row of the remote database.
func (s *Source) ExistingLocations(ctx context.Context) ([]models.Location, error) {
	rows, err := s.client.FetchDatabase(ctx)
	if err != nil {
		return nil, err
	}

	locs := make([]models.Location, 0, len(rows))
	for _, r := range rows {
		locs = append(locs, ToLocation(r))
	}
	return locs, nil
}
