package models

// DatabaseLocation is a row of the remote address database. Column names follow the upstream schema.
type DatabaseLocation struct {
	Name1             string  `json:"ADR_NAME1"`
	Name2             *string `json:"ADR_NAME2"`
	Street            string  `json:"ADR_STRASSE"`
	Country           string  `json:"ADR_LND"`
	PostalCode        string  `json:"ADR_PLZ"`
	City              string  `json:"ADR_ORT"`
	Latitude          float64 `json:"ADR_LATITUDE2"`
	Longitude         float64 `json:"ADR_LONGITUDE2"`
	LatitudeMercator  float64 `json:"ADR_LATITUDE_MERCATOR2"`
	LongitudeMercator float64 `json:"ADR_LONGITUDE_MERCATOR2"`
}

// AddressMatch is one hit returned by the remote address matcher.
type AddressMatch struct {
	DatabaseLocation
	ConfidencePercent float64 `json:"confidence_percent"`
}
