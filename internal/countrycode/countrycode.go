// Package countrycode maps country names to international vehicle registration codes (D, A, CH, ...).
package countrycode

import (
	_ "embed"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed codes.yaml
var codesYAML []byte

type group struct {
	Code  string   `yaml:"code"`
	Names []string `yaml:"names"`
}

type alias struct {
	name string
	code string
}

// Entry is a code with its primary country name.
type Entry struct {
	Country string `json:"country"`
	Code    string `json:"code"`
}

var (
	aliases []alias
	byName  map[string]string
	codes   map[string]bool
)

func init() {
	var groups []group
	if err := yaml.Unmarshal(codesYAML, &groups); err != nil {
		panic("failed to load codes.yaml: " + err.Error())
	}

	byName = make(map[string]string)
	codes = make(map[string]bool)
	for _, g := range groups {
		codes[g.Code] = true
		for _, n := range g.Names {
			aliases = append(aliases, alias{name: n, code: g.Code})
			byName[n] = g.Code
		}
	}
}

// Lookup returns the vehicle registration code for a country name (case-insensitive).
// Exact names win; otherwise the first table entry that contains or is contained in the input is used.
func Lookup(country string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(country))
	if normalized == "" {
		return "", false
	}

	if code, ok := byName[normalized]; ok {
		return code, true
	}

	for _, a := range aliases {
		if strings.Contains(normalized, a.name) || strings.Contains(a.name, normalized) {
			return a.code, true
		}
	}
	return "", false
}

// All returns one entry per code, named after the first country listed for it, sorted by country name.
func All() []Entry {
	seen := make(map[string]bool)
	var entries []Entry
	for _, a := range aliases {
		if seen[a.code] {
			continue
		}
		seen[a.code] = true
		entries = append(entries, Entry{Country: capitalize(a.name), Code: a.code})
	}

	c := collate.New(language.English)
	sort.SliceStable(entries, func(i, j int) bool {
		return c.CompareString(entries[i].Country, entries[j].Country) < 0
	})
	return entries
}

// IsValidCode reports whether code is a known registration code.
func IsValidCode(code string) bool {
	return codes[strings.ToUpper(strings.TrimSpace(code))]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
