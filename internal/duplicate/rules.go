package duplicate

import (
	"fmt"
	"math"

	"location-dedup/internal/geo"
	"location-dedup/internal/models"
	"location-dedup/internal/similarity"
)

// Measurement is what a rule observed for one (candidate, existing) pair.
type Measurement struct {
	// Value is the per-factor score before weighting.
	Value float64
	// DistanceKm is only set by proximity rules.
	DistanceKm float64
}

// Rule is one row of the duplicate-scoring table.
type Rule struct {
	Name   string
	Weight float64
	// Measure returns false when either side lacks the data the rule needs.
	Measure func(candidate, existing *models.Location) (Measurement, bool)
	Passes  func(Measurement) bool
	Reason  func(Measurement) string
}

// Default rule parameters.
const (
	NameThreshold       = 0.70
	AddressThreshold    = 0.60
	CityThreshold       = 0.80
	PostalCodeThreshold = 0.80
	ProximityKm         = 1.0

	NameWeight       = 0.40
	AddressWeight    = 0.30
	CityWeight       = 0.20
	PostalCodeWeight = 0.10
	GPSWeight        = 0.30

	// GPSContribution is the flat score a proximity hit contributes before weighting.
	GPSContribution = 0.30
)

// DefaultRules returns the standard table: name, address, city, postal code, GPS proximity.
func DefaultRules() []Rule {
	return []Rule{
		TextRule("name", func(l *models.Location) string { return l.Name }, NameThreshold, NameWeight,
			func(m Measurement) string { return fmt.Sprintf("Similar customer name (%d%% match)", percent(m.Value)) }),
		TextRule("address", func(l *models.Location) string { return l.Address }, AddressThreshold, AddressWeight,
			func(m Measurement) string { return fmt.Sprintf("Similar address (%d%% match)", percent(m.Value)) }),
		TextRule("city", func(l *models.Location) string { return l.City }, CityThreshold, CityWeight,
			func(m Measurement) string { return fmt.Sprintf("Same/similar city (%d%% match)", percent(m.Value)) }),
		TextRule("postal_code", func(l *models.Location) string { return l.PostalCode }, PostalCodeThreshold, PostalCodeWeight,
			func(Measurement) string { return "Same/similar postal code" }),
		ProximityRule("gps", ProximityKm, GPSContribution, GPSWeight),
	}
}

// TextRule builds a rule that scores one string field with similarity.Score and passes above threshold.
// A field that is empty on either side is not measured.
func TextRule(name string, field func(*models.Location) string, threshold, weight float64, reason func(Measurement) string) Rule {
	return Rule{
		Name:   name,
		Weight: weight,
		Measure: func(candidate, existing *models.Location) (Measurement, bool) {
			a, b := field(candidate), field(existing)
			if a == "" || b == "" {
				return Measurement{}, false
			}
			return Measurement{Value: similarity.Score(a, b)}, true
		},
		Passes: func(m Measurement) bool { return m.Value > threshold },
		Reason: reason,
	}
}

// ProximityRule builds a rule that passes when both locations are strictly closer than maxKm.
// A passing pair contributes the flat value regardless of the exact distance.
func ProximityRule(name string, maxKm, contribution, weight float64) Rule {
	return Rule{
		Name:   name,
		Weight: weight,
		Measure: func(candidate, existing *models.Location) (Measurement, bool) {
			d, ok := distanceBetween(candidate, existing)
			if !ok {
				return Measurement{}, false
			}
			return Measurement{Value: contribution, DistanceKm: d}, true
		},
		Passes: func(m Measurement) bool { return m.DistanceKm < maxKm },
		Reason: func(m Measurement) string {
			return fmt.Sprintf("Very close GPS location (%.2fkm away)", m.DistanceKm)
		},
	}
}

func distanceBetween(a, b *models.Location) (float64, bool) {
	if !a.HasCoordinates() || !b.HasCoordinates() {
		return 0, false
	}
	if !geo.Finite(*a.Latitude, *a.Longitude) || !geo.Finite(*b.Latitude, *b.Longitude) {
		return 0, false
	}
	return geo.Haversine(*a.Latitude, *a.Longitude, *b.Latitude, *b.Longitude), true
}

// percent rounds half up.
func percent(v float64) int {
	return int(math.Floor(v*100 + 0.5))
}
