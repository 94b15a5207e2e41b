// Package catalog filters, sorts and pages location lists for browsing.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"location-dedup/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const DefaultPageSize = 20

// SortBy selects the column a listing is ordered by.
type SortBy string

const (
	SortByName    SortBy = "name"
	SortByCity    SortBy = "city"
	SortByCountry SortBy = "country"
)

var ErrInvalidSort = errors.New("catalog: invalid sort field")

// ParseSortBy accepts name, city or country; empty means name.
func ParseSortBy(s string) (SortBy, error) {
	switch SortBy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByCity:
		return SortByCity, nil
	case SortByCountry:
		return SortByCountry, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, s)
	}
}

// Page is one slice of a listing.
type Page struct {
	Locations  []models.Location `json:"locations"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// Filter keeps locations where any text field contains term, ignoring case. An empty term keeps everything.
func Filter(locs []models.Location, term string) []models.Location {
	needle := strings.ToLower(term)
	out := make([]models.Location, 0, len(locs))
	for _, l := range locs {
		if needle == "" || matches(l, needle) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l models.Location, needle string) bool {
	for _, field := range []string{l.Name, l.Address, l.City, l.Country, l.PostalCode} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Sort orders locs in place using German collation rules, so umlauts sort next to their base letter.
func Sort(locs []models.Location, by SortBy) {
	key := func(l models.Location) string {
		switch by {
		case SortByCity:
			return l.City
		case SortByCountry:
			return l.Country
		default:
			return l.Name
		}
	}

	c := collate.New(language.German)
	sort.SliceStable(locs, func(i, j int) bool {
		return c.CompareString(key(locs[i]), key(locs[j])) < 0
	})
}

// Paginate returns the 1-based page of locs. Pages past the end are empty.
func Paginate(locs []models.Location, page, pageSize int) Page {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	// page and pageSize are caller-controlled; bounds are checked by division so nothing overflows
	start := len(locs)
	if page-1 < len(locs)/pageSize || (page-1 == len(locs)/pageSize && len(locs)%pageSize != 0) {
		start = (page - 1) * pageSize
	}
	end := start + min(pageSize, len(locs)-start)

	totalPages := len(locs) / pageSize
	if len(locs)%pageSize != 0 {
		totalPages++
	}

	return Page{
		Locations:  locs[start:end],
		Total:      len(locs),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
