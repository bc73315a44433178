package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/export"
	"github.com/thithuypham/folio/internal/publication"
)

var (
	exportBibtex bool
	exportKeys   string
	exportYear   string
	exportType   string
	exportAppend string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVar(&exportKeys, "keys", "", "Export only specified IDs (comma-separated)")
	exportCmd.Flags().StringVar(&exportYear, "year", catalog.All, "Export only this year")
	exportCmd.Flags().StringVar(&exportType, "type", catalog.All, "Export only this publication type")
	exportCmd.Flags().StringVar(&exportAppend, "append", "", "Append entries missing from this .bib file instead of printing")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export publications to BibTeX format",
	Long: `Export publications to BibTeX format.

Examples:
  folio export --bibtex
  folio export --bibtex --keys pham2025dual,pham2023model
  folio export --bibtex --year 2025 --type journal > recent.bib
  folio export --bibtex --append paper/refs.bib`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

// AppendResult is the response for export --append.
type AppendResult struct {
	Path     string   `json:"path"`
	Appended []string `json:"appended"`
	Skipped  int      `json:"skipped"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportBibtex {
		exitWithError(ExitError, "--bibtex flag is required")
	}

	coll := mustLoadCollection(mustFindRepository())

	var pubs []publication.Publication
	if exportKeys != "" {
		for _, key := range strings.Split(exportKeys, ",") {
			key = strings.TrimSpace(key)
			p, err := coll.Get(key)
			if errors.Is(err, publication.ErrNotFound) {
				exitWithError(ExitError, "unknown key: %s", key)
			}
			pubs = append(pubs, p)
		}
	} else {
		sel := catalog.Selection{Year: exportYear, Type: exportType}.Normalize()
		pubs = catalog.Filter(coll.All(), sel.Year, sel.Type)
	}

	if exportAppend != "" {
		appendToBib(exportAppend, pubs)
		return nil
	}

	// BibTeX is always text output, never JSON
	fmt.Print(export.ToBibTeXList(pubs))
	return nil
}

func appendToBib(path string, pubs []publication.Publication) {
	idx, err := export.IndexBibTeXFile(path)
	if err != nil {
		exitWithError(ExitDataError, "reading %s: %v", path, err)
	}

	missing := idx.Missing(pubs)
	if len(missing) > 0 {
		if err := export.AppendToBibFile(path, export.ToBibTeXList(missing)); err != nil {
			exitWithError(ExitError, "appending to %s: %v", path, err)
		}
	}

	appended := make([]string, len(missing))
	for i, p := range missing {
		appended[i] = p.ID
	}

	if humanOutput {
		fmt.Printf("Appended %d entries to %s (%d already present)\n", len(missing), path, len(pubs)-len(missing))
		return
	}
	outputJSON(AppendResult{Path: path, Appended: appended, Skipped: len(pubs) - len(missing)})
}
