package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/thithuypham/folio/internal/linkcheck"
)

var (
	linksRate     float64
	linksProjects bool
)

func init() {
	linksCmd.Flags().Float64Var(&linksRate, "rate", 0, "Requests per second (default: links.rate_per_second from config.yml)")
	linksCmd.Flags().BoolVar(&linksProjects, "projects", false, "Also check project links")
	rootCmd.AddCommand(linksCmd)
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Check that publication links resolve",
	Long: `Send a HEAD request to every actionable paper and code link.

Placeholder links ("#") are never requested. Each distinct URL is fetched
once per run. Exits with code 3 when any link is broken.

Examples:
  folio links
  folio links --rate 1 --projects --human`,
	Args: cobra.NoArgs,
	RunE: runLinks,
}

// LinksResult is the response for the links command.
type LinksResult struct {
	Checked int                `json:"checked"`
	Broken  int                `json:"broken"`
	Results []linkcheck.Result `json:"results"`
}

func runLinks(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	coll := mustLoadCollection(repoRoot)

	targets := linkcheck.PublicationTargets(coll.All())
	if linksProjects {
		targets = append(targets, linkcheck.ProjectTargets(mustLoadProjects(repoRoot))...)
	}

	rate := cfg.Links.RatePerSecond
	if linksRate > 0 {
		rate = linksRate
	}
	checker := linkcheck.NewChecker(
		linkcheck.WithRate(rate),
		linkcheck.WithTimeout(cfg.Links.Timeout()),
		linkcheck.WithUserAgent(cfg.Links.UserAgent),
		linkcheck.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := checker.CheckAll(ctx, targets)
	if err != nil {
		exitWithError(ExitError, "checking links: %v", err)
	}
	broken := linkcheck.Broken(results)

	if humanOutput {
		fmt.Printf("Checked %d links, %d broken\n", len(results), len(broken))
		for _, r := range broken {
			reason := r.Error
			if reason == "" {
				reason = fmt.Sprintf("HTTP %d", r.Status)
			}
			fmt.Printf("  - %s %s: %s (%s)\n", r.Owner, r.Kind, r.URL, reason)
		}
	} else {
		if results == nil {
			results = []linkcheck.Result{}
		}
		outputJSON(LinksResult{Checked: len(results), Broken: len(broken), Results: results})
	}

	if len(broken) > 0 {
		os.Exit(ExitDataError)
	}
	return nil
}
