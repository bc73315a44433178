package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/config"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Initialize a new folio repository",
	Long: `Initialize a new folio repository in the given directory (default: current directory).

Creates:
  .folio/
  ├── publications.jsonl  # Empty catalog
  ├── projects.jsonl      # Empty project list
  ├── config.yml          # Default config
  └── cache/              # Query database (gitignored)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a folio repository")
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .folio directory: %v", err)
	}

	for _, path := range []string{config.PublicationsPath(root), config.ProjectsPath(root)} {
		f, err := os.Create(path)
		if err != nil {
			exitWithError(ExitError, "creating %s: %v", path, err)
		}
		f.Close()
	}

	if err := config.Default().Save(root); err != nil {
		exitWithError(ExitError, "creating config.yml: %v", err)
	}

	if humanOutput {
		fmt.Printf("Initialized folio repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
