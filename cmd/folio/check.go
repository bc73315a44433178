package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/storage"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify catalog integrity",
	Long: `Verify the catalog: required fields, year format, link values,
duplicate ids and duplicate DOIs. Exits with code 3 when issues are found.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status       string       `json:"status"`
	Publications int          `json:"publications"`
	Projects     int          `json:"projects"`
	Issues       []CheckIssue `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	IDs     []string `json:"ids,omitempty"`
	Field   string   `json:"field,omitempty"`
	Message string   `json:"message,omitempty"`
	DOI     string   `json:"doi,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	mustLoadConfig(repoRoot)

	// Read raw records so every problem is listed, not just the first.
	pubs, err := storage.ReadAll(config.PublicationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading publications: %v", err)
	}

	issues := checkPublications(pubs)

	projects, err := storage.ReadAllProjects(config.ProjectsPath(repoRoot))
	if err != nil {
		issues = append(issues, CheckIssue{Type: "invalid_projects", Message: err.Error()})
	}

	result := CheckResult{
		Status:       "ok",
		Publications: len(pubs),
		Projects:     len(projects),
		Issues:       issues,
	}
	if len(issues) > 0 {
		result.Status = "issues_found"
	}
	if result.Issues == nil {
		result.Issues = []CheckIssue{}
	}

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}

	if len(issues) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}

// checkPublications runs record validation and the DOI uniqueness check.
func checkPublications(pubs []publication.Publication) []CheckIssue {
	var issues []CheckIssue

	for _, is := range publication.Check(pubs) {
		issues = append(issues, CheckIssue{
			Type:    "invalid_record",
			ID:      is.ID,
			Field:   is.Field,
			Message: is.String(),
		})
	}

	doiIDs := make(map[string][]string)
	var order []string
	for _, p := range pubs {
		if p.DOI == "" {
			continue
		}
		key := strings.ToLower(p.DOI)
		if _, seen := doiIDs[key]; !seen {
			order = append(order, key)
		}
		doiIDs[key] = append(doiIDs[key], p.ID)
	}
	for _, doi := range order {
		if ids := doiIDs[doi]; len(ids) > 1 {
			issues = append(issues, CheckIssue{Type: "duplicate_doi", IDs: ids, DOI: doi})
		}
	}

	return issues
}

func printCheckHuman(r CheckResult) {
	fmt.Printf("Checked %d publications and %d projects\n", r.Publications, r.Projects)
	if len(r.Issues) == 0 {
		fmt.Println("No issues found")
		return
	}

	fmt.Printf("\n%d issues:\n", len(r.Issues))
	for _, is := range r.Issues {
		switch is.Type {
		case "duplicate_doi":
			fmt.Printf("  - duplicate DOI %s: %s\n", is.DOI, strings.Join(is.IDs, ", "))
		case "invalid_record":
			fmt.Printf("  - %s\n", is.Message)
		default:
			fmt.Printf("  - %s: %s\n", is.Type, is.Message)
		}
	}
}
