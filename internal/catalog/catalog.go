// Package catalog derives filtered, year-grouped views from a set of
// publications. Every function here is pure: the same input always gives
// the same output and nothing is mutated or cached.
package catalog

import (
	"sort"

	"github.com/thithuypham/folio/internal/publication"
)

// All is the selection value that matches every record on its axis.
const All = publication.Reserved

// Selection holds one value per filter axis.
type Selection struct {
	Year string `json:"year"`
	Type string `json:"type"`
}

// Normalize maps empty axes to All.
func (s Selection) Normalize() Selection {
	if s.Year == "" {
		s.Year = All
	}
	if s.Type == "" {
		s.Type = All
	}
	return s
}

// IsFiltered reports whether any axis narrows the result.
func (s Selection) IsFiltered() bool {
	s = s.Normalize()
	return s.Year != All || s.Type != All
}

// YearGroup is one year's bucket of publications.
type YearGroup struct {
	Year         string                    `json:"year"`
	Publications []publication.Publication `json:"publications"`
}

// DistinctYears returns every year present, newest first, without duplicates.
func DistinctYears(pubs []publication.Publication) []string {
	seen := make(map[string]bool)
	var years []string
	for _, p := range pubs {
		if !seen[p.Year] {
			seen[p.Year] = true
			years = append(years, p.Year)
		}
	}
	sortYearsDesc(years)
	return years
}

// DistinctTypes returns every type present in ascending lexicographic order.
func DistinctTypes(pubs []publication.Publication) []string {
	seen := make(map[string]bool)
	var types []string
	for _, p := range pubs {
		if !seen[p.Type] {
			seen[p.Type] = true
			types = append(types, p.Type)
		}
	}
	sort.Strings(types)
	return types
}

// Filter returns the records matching both year and type, in input order.
// All on an axis matches every record.
func Filter(pubs []publication.Publication, year, typ string) []publication.Publication {
	sel := Selection{Year: year, Type: typ}.Normalize()

	out := make([]publication.Publication, 0, len(pubs))
	for _, p := range pubs {
		if matches(p, sel) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p publication.Publication, sel Selection) bool {
	yearMatch := sel.Year == All || p.Year == sel.Year
	typeMatch := sel.Type == All || p.Type == sel.Type
	return yearMatch && typeMatch
}

// GroupByYear partitions pubs into per-year buckets ordered newest first.
// Records keep their input order within a bucket.
func GroupByYear(pubs []publication.Publication) []YearGroup {
	buckets := make(map[string][]publication.Publication)
	var years []string
	for _, p := range pubs {
		if _, ok := buckets[p.Year]; !ok {
			years = append(years, p.Year)
		}
		buckets[p.Year] = append(buckets[p.Year], p)
	}
	sortYearsDesc(years)

	groups := make([]YearGroup, len(years))
	for i, y := range years {
		groups[i] = YearGroup{Year: y, Publications: buckets[y]}
	}
	return groups
}

// Flatten concatenates groups in order.
func Flatten(groups []YearGroup) []publication.Publication {
	var out []publication.Publication
	for _, g := range groups {
		out = append(out, g.Publications...)
	}
	return out
}

// sortYearsDesc orders year strings by descending numeric value.
// Ties (e.g. two unparseable years) fall back to string order so the
// result is deterministic.
func sortYearsDesc(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, b := yearValue(years[i]), yearValue(years[j])
		if a != b {
			return a > b
		}
		return years[i] > years[j]
	})
}

func yearValue(y string) int {
	return publication.Publication{Year: y}.YearNumber()
}
