package models

import "time"

// Location represents a customer delivery location: who is delivered to, the postal address and, when known,
// the GPS position picked on the map.
type Location struct {
	ID          string    `json:"id"`
	Name        string    `json:"customer_name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	PostalCode  string    `json:"postal_code"`
	Country     string    `json:"country"`
	CountryCode string    `json:"country_code,omitempty"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// IsEmpty reports whether none of the matchable fields carry a value.
func (l Location) IsEmpty() bool {
	return l.Name == "" && l.Address == "" && l.City == "" && l.PostalCode == "" &&
		l.Country == "" && !l.HasCoordinates()
}

// Coord returns a pointer to v, for filling the optional coordinate fields.
func Coord(v float64) *float64 {
	return &v
}
