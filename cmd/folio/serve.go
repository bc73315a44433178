package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/server"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config.yml, or $FOLIO_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the publications page and JSON API",
	Long: `Serve the catalog over HTTP until interrupted.

Routes:
  GET /publications?year=&type=      publications page
  GET /projects                      projects page
  GET /api/publications?year=&type=  filtered, year-grouped view as JSON
  GET /api/publications/{id}         one publication
  GET /api/facets                    year and type options
  GET /api/stats                     counts by type
  GET /api/search?q=&author=&venue=  full-text search
  GET /api/projects                  active and completed projects
  GET /healthz                       liveness

The catalog is loaded once at startup; restart to pick up edits.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	cfg := mustLoadConfig(repoRoot)
	coll := mustLoadCollection(repoRoot)
	projects := mustLoadProjects(repoRoot)

	db := mustOpenDatabase(repoRoot)
	defer db.Close()
	if _, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot)); err != nil {
		exitWithError(ExitDataError, "indexing publications: %v", err)
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(server.Options{
		Publications: coll,
		Projects:     projects,
		Page:         pageOptions(cfg),
		Search:       db,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		exitWithError(ExitError, "serving: %v", err)
	}
	return nil
}
