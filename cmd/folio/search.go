package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/storage"
)

var (
	searchLimit  int
	searchAuthor string
	searchYear   string
	searchType   string
	searchVenue  string
	searchDOI    string
)

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return")
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Search author names (prefix match per word)")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Filter by exact year")
	searchCmd.Flags().StringVar(&searchType, "type", "", "Filter by publication type")
	searchCmd.Flags().StringVar(&searchVenue, "venue", "", "Filter by venue or short venue (partial match)")
	searchCmd.Flags().StringVar(&searchDOI, "doi", "", "Lookup by exact DOI")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search publications by keyword, author, venue or DOI",
	Long: `Search publications through the SQLite full-text index.

The query matches titles, authors, venues and years. Filters combine with AND.
The index is rebuilt from publications.jsonl on every search, so it is
never stale.

Examples:
  folio search underwater
  folio search "deep unfolding" --type conference
  folio search -a "Jaem" --year 2024
  folio search --venue JVCI
  folio search --doi 10.1117/12.2666202`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// SearchResult is the response for the search command.
type SearchResult struct {
	Count        int                       `json:"count"`
	Publications []publication.Publication `json:"publications"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters := storage.QueryFilters{
		Author: strings.TrimSpace(searchAuthor),
		Year:   searchYear,
		Type:   searchType,
		Venue:  strings.TrimSpace(searchVenue),
		DOI:    strings.TrimSpace(searchDOI),
		Limit:  searchLimit,
	}
	if len(args) == 1 {
		filters.Keyword = strings.TrimSpace(args[0])
	}
	if filters.Keyword == "" && filters.Author == "" && filters.Venue == "" && filters.DOI == "" {
		exitWithError(ExitError, "a query or one of --author, --venue, --doi is required")
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	if _, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot)); err != nil {
		exitWithError(ExitDataError, "indexing publications: %v", err)
	}

	pubs, err := db.Query(filters)
	if err != nil {
		exitWithError(ExitError, "searching: %v", err)
	}

	if !humanOutput {
		outputJSON(SearchResult{Count: len(pubs), Publications: pubs})
		return nil
	}

	if len(pubs) == 0 {
		fmt.Println("No matching publications")
		return nil
	}
	for _, p := range pubs {
		printPubLine(p)
	}
	fmt.Printf("\n%d results\n", len(pubs))
	return nil
}
