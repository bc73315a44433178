// Package main provides the folio CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/thithuypham/folio/internal/config"
	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/render"
	"github.com/thithuypham/folio/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool

	logger = zap.NewNop()
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		// SilenceErrors is set, so cobra errors (bad flags, missing args) land here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Publication catalog and portfolio site CLI",
	Long: `folio manages an academic publication catalog and serves it as a
filterable publications page.

Data is stored in git-versionable JSONL with ephemeral SQLite for queries.
All commands output JSON by default; use --human for readable output.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = Version
}

// getStartingDirectory returns the directory to start searching for a repository.
// Checks the global catalog_path first, then the current working directory.
func getStartingDirectory() (string, int) {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		return "", outputError(ExitConfigError, "%v", err)
	}
	if global.CatalogPath != "" {
		return global.CatalogPath, 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", outputError(ExitError, "getting current directory: %v", err)
	}
	return cwd, 0
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	start, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	repoRoot, err := config.FindRepository(start)
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}
	return repoRoot
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustOpenDatabase opens the SQLite database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenDatabase(repoRoot string) *storage.DB {
	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return db
}

// mustLoadCollection reads and validates the catalog, exits on error.
func mustLoadCollection(repoRoot string) *publication.Collection {
	coll, err := storage.LoadCollection(config.PublicationsPath(repoRoot))
	if err != nil {
		var verr *publication.ValidationError
		if errors.As(err, &verr) {
			exitWithError(ExitDataError, "%v\n\nRun 'folio check' to list every issue.", err)
		}
		exitWithError(ExitDataError, "reading publications: %v", err)
	}
	return coll
}

// mustLoadProjects reads the project list, exits on error.
func mustLoadProjects(repoRoot string) []project.Project {
	projects, err := storage.ReadAllProjects(config.ProjectsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "reading projects: %v", err)
	}
	return projects
}

// pageOptions maps site config onto page options.
func pageOptions(cfg *config.Config) render.Options {
	return render.Options{
		Title:           cfg.Site.Title,
		Description:     cfg.Site.Description,
		HighlightAuthor: cfg.Site.HighlightAuthor,
	}
}
