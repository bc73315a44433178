package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from publications.jsonl.

Use this after pulling changes from git or if the database becomes corrupted.
An invalid catalog leaves the existing database untouched.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string `json:"status"`
	Publications int    `json:"publications"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()

	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	n, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d publications\n", n)
	} else {
		outputJSON(RebuildResult{Status: "rebuilt", Publications: n})
	}
	return nil
}
