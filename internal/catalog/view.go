package catalog

import (
	"sort"

	"github.com/thithuypham/folio/internal/publication"
)

// View is everything a page needs to show one selection: the options for
// both selectors, the grouped result and the counts.
type View struct {
	Selection   Selection   `json:"selection"`
	YearOptions []string    `json:"year_options"` // All first, then DistinctYears
	TypeOptions []string    `json:"type_options"` // All first, then DistinctTypes
	Groups      []YearGroup `json:"groups"`
	Matched     int         `json:"matched"`
	Total       int         `json:"total"`

	// Filtered is true when the selection narrows the catalog. A filtered
	// view with no matches is a normal, empty result.
	Filtered bool `json:"filtered"`
}

// Empty reports whether no record is shown.
func (v View) Empty() bool {
	return v.Matched == 0
}

// NoMatches reports whether a narrowing selection matched nothing. An
// empty catalog with no filter applied is not a "no matches" view.
func (v View) NoMatches() bool {
	return v.Filtered && v.Matched == 0
}

// Build filters pubs by sel and groups the result by year.
// Selector options are always derived from the full input, not the subset.
func Build(pubs []publication.Publication, sel Selection) View {
	sel = sel.Normalize()
	filtered := Filter(pubs, sel.Year, sel.Type)

	groups := GroupByYear(filtered)
	if groups == nil {
		groups = []YearGroup{}
	}

	return View{
		Selection:   sel,
		YearOptions: append([]string{All}, DistinctYears(pubs)...),
		TypeOptions: append([]string{All}, DistinctTypes(pubs)...),
		Groups:      groups,
		Matched:     len(filtered),
		Total:       len(pubs),
		Filtered:    sel.IsFiltered(),
	}
}

// Summary counts a catalog by type.
type Summary struct {
	Total  int            `json:"total"`
	ByType map[string]int `json:"by_type"`
}

// Count returns the number of records of the given type.
func (s Summary) Count(typ string) int {
	return s.ByType[typ]
}

// Types returns the counted types in ascending order.
func (s Summary) Types() []string {
	types := make([]string, 0, len(s.ByType))
	for t := range s.ByType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CountByType returns the number of records per type.
func CountByType(pubs []publication.Publication) map[string]int {
	counts := make(map[string]int)
	for _, p := range pubs {
		counts[p.Type]++
	}
	return counts
}

// Summarize counts pubs in total and by type.
func Summarize(pubs []publication.Publication) Summary {
	return Summary{Total: len(pubs), ByType: CountByType(pubs)}
}
