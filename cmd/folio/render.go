package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/render"
)

var (
	renderOutput   string
	renderYear     string
	renderType     string
	renderProjects bool
)

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file path (default: stdout)")
	renderCmd.Flags().StringVar(&renderYear, "year", catalog.All, "Preselect a year")
	renderCmd.Flags().StringVar(&renderType, "type", catalog.All, "Preselect a publication type")
	renderCmd.Flags().BoolVar(&renderProjects, "projects", false, "Render the projects page instead")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate the publications page",
	Long: `Generate the publications page as a standalone HTML file.

The page lists the catalog grouped by year, newest first, with year and type
selectors. A static file shows the preselected filters; under 'folio serve'
changing a selector reloads the page with the new selection.

Examples:
  folio render > publications.html
  folio render --output site/publications.html
  folio render --year 2023 --type conference -o 2023.html
  folio render --projects -o projects.html`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	opts := pageOptions(mustLoadConfig(repoRoot))

	var buf bytes.Buffer
	if renderProjects {
		if err := render.Projects(&buf, mustLoadProjects(repoRoot), render.Options{Description: opts.Description}); err != nil {
			return fmt.Errorf("generating HTML: %w", err)
		}
	} else {
		pubs := mustLoadCollection(repoRoot).All()
		view := catalog.Build(pubs, catalog.Selection{Year: renderYear, Type: renderType})
		if err := render.Publications(&buf, view, catalog.Summarize(pubs), opts); err != nil {
			return fmt.Errorf("generating HTML: %w", err)
		}
	}

	if renderOutput == "" {
		_, err := buf.WriteTo(os.Stdout)
		return err
	}

	if err := os.WriteFile(renderOutput, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	if humanOutput {
		fmt.Printf("Page written to %s\n", renderOutput)
	} else {
		outputJSON(map[string]string{"output": renderOutput})
	}
	return nil
}
