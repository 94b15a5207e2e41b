// Package duplicate flags existing locations that look like duplicates of a newly entered one.
//
// Every existing location is compared field by field through an ordered rule table. Rules that pass
// their threshold add score×weight to a running total, and the total is aggregated into one similarity.
// Locations above the minimum similarity are ranked and the best few are returned.
package duplicate

import (
	"fmt"
	"sort"
	"strings"

	"location-dedup/internal/models"
)

// Aggregation selects how passing rule contributions are combined into one similarity.
type Aggregation int

const (
	// AggregateByFactorCount divides the summed weighted contributions by the number of passing rules.
	// This is the historical scoring and the default.
	AggregateByFactorCount Aggregation = iota
	// AggregateByWeight divides the summed weighted contributions by the summed weights of passing rules.
	AggregateByWeight
)

func (a Aggregation) String() string {
	switch a {
	case AggregateByFactorCount:
		return "factor_count"
	case AggregateByWeight:
		return "weight"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

// ParseAggregation maps a config value onto an Aggregation.
func ParseAggregation(s string) (Aggregation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "factor_count":
		return AggregateByFactorCount, nil
	case "weight", "weighted_mean":
		return AggregateByWeight, nil
	default:
		return 0, fmt.Errorf("duplicate: unknown aggregation %q", s)
	}
}

const (
	DefaultMinSimilarity = 0.5
	DefaultMaxResults    = 3
)

// Matcher ranks existing locations against a candidate. The zero value is not usable; use NewMatcher.
type Matcher struct {
	rules         []Rule
	minSimilarity float64
	maxResults    int
	aggregation   Aggregation
}

// Option customises a Matcher.
type Option func(*Matcher)

// WithRules replaces the default rule table.
func WithRules(rules []Rule) Option {
	return func(m *Matcher) { m.rules = rules }
}

// WithMinSimilarity sets the exclusive lower bound a location must exceed to be reported.
func WithMinSimilarity(v float64) Option {
	return func(m *Matcher) { m.minSimilarity = v }
}

// WithMaxResults caps the number of returned matches. Values below 1 are ignored.
func WithMaxResults(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.maxResults = n
		}
	}
}

// WithAggregation selects the aggregation strategy.
func WithAggregation(a Aggregation) Option {
	return func(m *Matcher) { m.aggregation = a }
}

// NewMatcher creates a matcher with the default rule table, threshold and result cap.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		rules:         DefaultRules(),
		minSimilarity: DefaultMinSimilarity,
		maxResults:    DefaultMaxResults,
		aggregation:   AggregateByFactorCount,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMatcher = NewMatcher()

// FindDuplicates runs the default matcher.
func FindDuplicates(candidate models.Location, existing []models.Location) []models.MatchCandidate {
	return defaultMatcher.FindDuplicates(candidate, existing)
}

// Evaluation is the full scoring of one existing location, including rejected ones.
type Evaluation struct {
	Similarity float64
	Factors    int
	Reasons    []string
	DistanceKm *float64
}

// Evaluate scores a single existing location against the candidate.
func (m *Matcher) Evaluate(candidate, existing *models.Location) Evaluation {
	var (
		ev          Evaluation
		total       float64
		weightTotal float64
	)

	if d, ok := distanceBetween(candidate, existing); ok {
		ev.DistanceKm = &d
	}

	for _, rule := range m.rules {
		meas, ok := rule.Measure(candidate, existing)
		if !ok {
			continue
		}
		if !rule.Passes(meas) {
			continue
		}
		ev.Reasons = append(ev.Reasons, rule.Reason(meas))
		total += meas.Value * rule.Weight
		weightTotal += rule.Weight
		ev.Factors++
	}

	if ev.Factors == 0 {
		return ev
	}

	switch m.aggregation {
	case AggregateByWeight:
		if weightTotal > 0 {
			ev.Similarity = total / weightTotal
		}
	default:
		ev.Similarity = total / float64(ev.Factors)
	}
	return ev
}

// FindDuplicates returns at most maxResults existing locations whose aggregate similarity exceeds the
// minimum, best first. Equal scores keep their input order. Inputs are not modified.
func (m *Matcher) FindDuplicates(candidate models.Location, existing []models.Location) []models.MatchCandidate {
	matches := make([]models.MatchCandidate, 0, len(existing))

	for i := range existing {
		ev := m.Evaluate(&candidate, &existing[i])
		if ev.Factors == 0 || ev.Similarity <= m.minSimilarity {
			continue
		}
		matches = append(matches, models.MatchCandidate{
			Location:     existing[i],
			Similarity:   ev.Similarity,
			MatchReasons: ev.Reasons,
			DistanceKm:   ev.DistanceKm,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > m.maxResults {
		matches = matches[:m.maxResults]
	}
	return matches
}
