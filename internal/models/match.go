package models

import "time"

// MatchCandidate is an existing location flagged as a possible duplicate of a new entry.
type MatchCandidate struct {
	Location     Location `json:"location"`
	Similarity   float64  `json:"similarity"`
	MatchReasons []string `json:"match_reasons"`
	DistanceKm   *float64 `json:"distance_km,omitempty"`
}

// DuplicateReport is the outcome of screening one candidate location.
type DuplicateReport struct {
	ID        string           `json:"id"`
	Candidate Location         `json:"candidate"`
	Matches   []MatchCandidate `json:"matches"`
	Unique    bool             `json:"unique"`
	CheckedAt time.Time        `json:"checked_at"`
}
