package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/publication"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count publications by type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		coll := mustLoadCollection(mustFindRepository())
		summary := catalog.Summarize(coll.All())

		if !humanOutput {
			outputJSON(summary)
			return nil
		}

		fmt.Printf("📊 total publications: %d • journals: %d • conferences: %d\n",
			summary.Total,
			summary.Count(publication.TypeJournal),
			summary.Count(publication.TypeConference))
		for _, t := range summary.Types() {
			if t != publication.TypeJournal && t != publication.TypeConference {
				fmt.Printf("   %s: %d\n", t, summary.Count(t))
			}
		}
		return nil
	},
}
