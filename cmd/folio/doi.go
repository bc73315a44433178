package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/pdf"
	"github.com/thithuypham/folio/internal/storage"
)

func init() {
	rootCmd.AddCommand(doiCmd)
}

var doiCmd = &cobra.Command{
	Use:   "doi <pdf>",
	Short: "Extract the DOI from a PDF",
	Long: `Extract the DOI and a best-guess title from a local PDF, and report
which catalog record carries that DOI, if any.

Example:
  folio doi ~/papers/iwait2023.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runDOI,
}

// DOIResult is the response for the doi command.
type DOIResult struct {
	File    string `json:"file"`
	DOI     string `json:"doi,omitempty"`
	Title   string `json:"title,omitempty"`
	Pages   int    `json:"pages"`
	Matches string `json:"matches,omitempty"` // Catalog id with the same DOI
}

func runDOI(cmd *cobra.Command, args []string) error {
	path := config.ExpandPath(args[0])
	meta, err := pdf.Extract(path)
	if err != nil {
		exitWithError(ExitDataError, "reading PDF: %v", err)
	}

	result := DOIResult{File: path, DOI: meta.DOI, Title: meta.Title, Pages: meta.Pages}

	// Matching against the catalog is best effort; the DOI is useful on its own.
	if meta.DOI != "" {
		if repoRoot, err := config.FindRepository("."); err == nil {
			pubs, err := storage.ReadAll(config.PublicationsPath(repoRoot))
			if err == nil {
				if idx, ok := storage.FindByDOI(pubs, meta.DOI); ok {
					result.Matches = pubs[idx].ID
				}
			}
		}
	}

	if !humanOutput {
		outputJSON(result)
		return nil
	}

	if result.DOI == "" {
		fmt.Printf("No DOI found in %s (%d pages)\n", path, result.Pages)
		return nil
	}
	fmt.Printf("DOI:    %s\n", result.DOI)
	if result.Title != "" {
		fmt.Printf("Title:  %s\n", result.Title)
	}
	if result.Matches != "" {
		fmt.Printf("In catalog as %s\n", result.Matches)
	} else {
		fmt.Println("Not in catalog")
	}
	return nil
}
