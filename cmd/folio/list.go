package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/catalog"
)

var (
	listYear string
	listType string
)

func init() {
	listCmd.Flags().StringVar(&listYear, "year", catalog.All, "Show only this year")
	listCmd.Flags().StringVar(&listType, "type", catalog.All, "Show only this publication type")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(yearsCmd)
	rootCmd.AddCommand(typesCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List publications grouped by year",
	Long: `List publications matching the year and type filters, newest year first.

An unknown year or type is not an error; it simply matches nothing.

Examples:
  folio list
  folio list --year 2023 --type conference --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the year filter options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll := mustLoadCollection(mustFindRepository())
		printOptions(catalog.DistinctYears(coll.All()))
		return nil
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the type filter options",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll := mustLoadCollection(mustFindRepository())
		printOptions(catalog.DistinctTypes(coll.All()))
		return nil
	},
}

func runList(cmd *cobra.Command, args []string) error {
	coll := mustLoadCollection(mustFindRepository())
	view := catalog.Build(coll.All(), catalog.Selection{Year: listYear, Type: listType})

	if !humanOutput {
		outputJSON(view)
		return nil
	}

	if view.Empty() {
		fmt.Println("no publications found for the selected criteria")
		return nil
	}
	for _, g := range view.Groups {
		fmt.Printf("%s (%d)\n", g.Year, len(g.Publications))
		for _, p := range g.Publications {
			printPubLine(p)
		}
		fmt.Println()
	}
	fmt.Printf("%d of %d publications\n", view.Matched, view.Total)
	return nil
}

// printOptions prints selector values. Human output leads with "all" the
// way the page selectors do.
func printOptions(values []string) {
	if values == nil {
		values = []string{}
	}
	if !humanOutput {
		outputJSON(values)
		return
	}
	fmt.Println(catalog.All)
	for _, v := range values {
		fmt.Println(v)
	}
}
