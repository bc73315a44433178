package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/publication"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single publication by ID",
	Long: `Get a single publication by its citation key.

Example:
  folio get pham2023model`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	coll := mustLoadCollection(mustFindRepository())

	id := args[0]
	p, err := coll.Get(id)
	if errors.Is(err, publication.ErrNotFound) {
		exitWithError(ExitError, "publication not found: %s", id)
	}
	if err != nil {
		exitWithError(ExitError, "getting publication: %v", err)
	}

	if humanOutput {
		printPubDetail(p)
	} else {
		outputJSON(p)
	}
	return nil
}

func printPubDetail(p publication.Publication) {
	const indent = "          "

	fmt.Println(p.ID)
	fmt.Println(strings.Repeat("═", DetailTitleMaxLen))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(p.Title, TextWrapWidth, indent))
	fmt.Printf("Authors:  %s\n", wrapText(strings.Join(p.Authors, ", "), TextWrapWidth, indent))
	fmt.Println()

	fmt.Printf("Venue:    %s\n", wrapText(p.Venue, TextWrapWidth, indent))
	if p.VenueShort != "" {
		fmt.Printf("Short:    %s\n", p.VenueShort)
	}
	fmt.Printf("Year:     %s\n", p.Year)
	fmt.Printf("Type:     %s\n", p.Type)
	if p.Status != "" {
		fmt.Printf("Status:   %s\n", p.Status)
	}
	if p.Volume != "" {
		fmt.Printf("Volume:   %s\n", p.Volume)
	}
	if p.Pages != "" {
		fmt.Printf("Pages:    %s\n", p.Pages)
	}
	if line := p.PublisherLine(); line != "" {
		fmt.Printf("Publisher: %s\n", line)
	}
	if p.DOI != "" {
		fmt.Printf("DOI:      %s\n", p.DOI)
	}

	if links := p.ActionableLinks(); len(links) > 0 {
		fmt.Println()
		for _, l := range links {
			fmt.Printf("%-9s %s\n", strings.ToUpper(string(l.Kind))+":", l.URL)
		}
	}
}
