package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/importer"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/storage"
)

var (
	importFormat string
	importDryRun bool
)

func init() {
	importCmd.Flags().StringVar(&importFormat, "format", "bibtex", "Import format (bibtex)")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show what would be imported without writing")
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import publications from a BibTeX file",
	Long: `Import publications from a BibTeX file.

Entries are matched against the catalog by DOI first, then by citation key.
A match updates the existing record in place; anything else is appended.
Entries that do not make valid publications are skipped and reported.

Usage:
  folio import refs.bib
  folio import --format bibtex refs.bib --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

// ImportResult represents the result of an import operation.
type ImportResult struct {
	New     int      `json:"new"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// DryRunResult represents the result of a dry-run import.
type DryRunResult struct {
	WouldAdd    int            `json:"would_add"`
	WouldUpdate int            `json:"would_update"`
	WouldSkip   int            `json:"would_skip"`
	Details     []ImportDetail `json:"details,omitempty"`
}

// ImportDetail describes a single import action.
type ImportDetail struct {
	ID     string `json:"id"`
	Action string `json:"action"` // new, update, skip
	Title  string `json:"title"`
	Reason string `json:"reason,omitempty"`
}

// importStats tracks import operation counts.
type importStats struct {
	newCount int
	updated  int
	skipped  int
}

func runImport(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	if importFormat != "bibtex" {
		exitWithError(ExitError, "unknown format: %s", importFormat)
	}

	newPubs, parseErrors := parseImportFile(args[0])

	pubsPath := config.PublicationsPath(repoRoot)
	persisted, err := storage.ReadAll(pubsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading existing publications: %v", err)
	}

	stats, details, actions := processImports(newPubs, persisted)

	errStrs := errorsToStrings(parseErrors)
	stats.skipped += len(parseErrors)
	for _, e := range errStrs {
		logger.Warn("skipped entry", zap.String("reason", e))
	}

	if importDryRun {
		reportDryRun(stats, details, errStrs)
		return nil
	}

	result, err := persistImports(persisted, actions)
	if err != nil {
		exitWithError(ExitDataError, "applying import: %v", err)
	}
	if err := storage.WriteAll(pubsPath, result); err != nil {
		exitWithError(ExitError, "writing publications: %v", err)
	}

	reportImportResults(stats, errStrs)
	return nil
}

// parseImportFile reads and parses the import file.
func parseImportFile(path string) ([]publication.Publication, []error) {
	data, err := os.ReadFile(path)
	if err != nil {
		exitWithError(ExitError, "reading file: %v", err)
	}

	pubs, parseErrors := importer.ParseBibTeX(data)
	if len(parseErrors) > 0 && len(pubs) == 0 {
		exitWithError(ExitDataError, "failed to parse any publications: %v", parseErrors[0])
	}
	return pubs, parseErrors
}

// processImports classifies each publication and builds the action list.
func processImports(newPubs, persisted []publication.Publication) (importStats, []ImportDetail, []storage.PubWithAction) {
	// The working set grows with each new entry so duplicates inside one
	// file are caught too.
	working := make([]publication.Publication, len(persisted))
	copy(working, persisted)

	var stats importStats
	var details []ImportDetail
	var actions []storage.PubWithAction

	for _, p := range newPubs {
		action := classifyImport(working, p)

		switch action.action {
		case "new":
			p.ID = storage.GenerateUniqueID(working, p.ID)
			actions = append(actions, storage.PubWithAction{Pub: p, Action: "new"})
			working = append(working, p)
			stats.newCount++
		case "update":
			if action.existingIdx < len(persisted) {
				p = mergeImport(persisted[action.existingIdx], p)
				actions = append(actions, storage.PubWithAction{Pub: p, Action: "update", ExistingIdx: action.existingIdx})
				stats.updated++
			} else {
				stats.skipped++
				action.action = "skip"
				action.reason = "duplicate_in_batch"
			}
		}

		details = append(details, ImportDetail{
			ID:     p.ID,
			Action: action.action,
			Title:  truncateString(p.Title, ImportTitleMaxLen),
			Reason: action.reason,
		})
	}

	return stats, details, actions
}

// mergeImport overlays the fields an imported entry supplies onto the
// catalog record. The catalog key is kept so a DOI match never renames a
// record, and curated fields BibTeX does not carry (venue_short, status,
// code links) survive.
func mergeImport(existing, incoming publication.Publication) publication.Publication {
	merged := existing
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&merged.Title, incoming.Title)
	set(&merged.Venue, incoming.Venue)
	set(&merged.VenueShort, incoming.VenueShort)
	set(&merged.Year, incoming.Year)
	set(&merged.Type, incoming.Type)
	set(&merged.Pages, incoming.Pages)
	set(&merged.Volume, incoming.Volume)
	set(&merged.Publisher, incoming.Publisher)
	set(&merged.Organization, incoming.Organization)
	set(&merged.Month, incoming.Month)
	set(&merged.Status, incoming.Status)
	set(&merged.DOI, incoming.DOI)
	if len(incoming.Authors) > 0 {
		merged.Authors = append([]string(nil), incoming.Authors...)
	} else {
		merged.Authors = append([]string(nil), existing.Authors...)
	}

	if len(existing.Links)+len(incoming.Links) > 0 {
		merged.Links = make(map[publication.LinkKind]string, len(existing.Links)+len(incoming.Links))
		for k, v := range existing.Links {
			merged.Links[k] = v
		}
		for k, v := range incoming.Links {
			merged.Links[k] = v
		}
	}
	return merged
}

type importAction struct {
	action      string // new, update, skip
	reason      string
	existingIdx int
}

// classifyImport determines what to do with an incoming publication.
// Panics if p has an empty ID, as this indicates a bug in the parser.
func classifyImport(existing []publication.Publication, p publication.Publication) importAction {
	if p.ID == "" {
		panic("classifyImport called with empty ID - parser bug")
	}

	if p.DOI != "" {
		if idx, found := storage.FindByDOI(existing, p.DOI); found {
			return importAction{action: "update", reason: "doi_match", existingIdx: idx}
		}
	}

	if idx, found := storage.FindByID(existing, p.ID); found {
		return importAction{action: "update", reason: "id_match", existingIdx: idx}
	}

	return importAction{action: "new"}
}

// persistImports applies updates in place, appends new records and checks
// that the result is still a valid catalog.
func persistImports(existing []publication.Publication, actions []storage.PubWithAction) ([]publication.Publication, error) {
	result := make([]publication.Publication, len(existing))
	copy(result, existing)

	for _, a := range actions {
		if a.Action == "update" {
			result[a.ExistingIdx] = a.Pub
		}
	}
	for _, a := range actions {
		if a.Action == "new" {
			result = append(result, a.Pub)
		}
	}

	if _, err := publication.NewCollection(result); err != nil {
		return nil, err
	}
	return result, nil
}

// errorsToStrings converts a slice of errors to strings.
func errorsToStrings(errs []error) []string {
	strs := make([]string, len(errs))
	for i, e := range errs {
		strs[i] = e.Error()
	}
	return strs
}

func reportDryRun(stats importStats, details []ImportDetail, errStrs []string) {
	if !humanOutput {
		outputJSON(DryRunResult{
			WouldAdd:    stats.newCount,
			WouldUpdate: stats.updated,
			WouldSkip:   stats.skipped,
			Details:     details,
		})
		return
	}

	fmt.Println("Dry run - would import from BibTeX...")
	fmt.Printf("  Would add:    %d new publications\n", stats.newCount)
	fmt.Printf("  Would update: %d existing publications (matched by DOI or ID)\n", stats.updated)
	fmt.Printf("  Would skip:   %d (errors or duplicates)\n", stats.skipped)
	printErrors("Parse errors:", errStrs)
}

func reportImportResults(stats importStats, errStrs []string) {
	if !humanOutput {
		outputJSON(ImportResult{
			New:     stats.newCount,
			Updated: stats.updated,
			Skipped: stats.skipped,
			Errors:  errStrs,
		})
		return
	}

	fmt.Println("Imported from BibTeX:")
	fmt.Printf("  Added:   %d new publications\n", stats.newCount)
	fmt.Printf("  Updated: %d existing publications (matched by DOI or ID)\n", stats.updated)
	fmt.Printf("  Skipped: %d (errors or duplicates)\n", stats.skipped)
	printErrors("Errors:", errStrs)
}

func printErrors(heading string, errStrs []string) {
	if len(errStrs) == 0 {
		return
	}
	fmt.Println("\n" + heading)
	for _, e := range errStrs {
		fmt.Printf("  - %s\n", e)
	}
}
