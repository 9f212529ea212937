// Package main provides the folio CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/observability"
	"github.com/folio-cv/folio/internal/storage"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	logLevel    string

	// logger carries diagnostics to stderr; stdout is reserved for results.
	logger = zerolog.Nop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Publication catalog and citation generator",
	Long: `folio manages the publication list of an academic portfolio.

Publications are stored in git-versionable JSONL with an ephemeral SQLite
cache for queries. Citations render in APA, Chicago, Harvard, Vancouver and
MLA; entries export to BibTeX, RIS, CSL-YAML and spreadsheets. folio serve
publishes the citations page and a JSON API.

All commands output JSON by default; use --human for readable text.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.Version = Version
}

// setupLogging builds the stderr logger from the global config, with
// --log-level taking precedence.
func setupLogging(cmd *cobra.Command, args []string) error {
	cfg := observability.DefaultLoggingConfig()
	if global, err := config.LoadGlobalConfig(); err == nil {
		cfg.Level = global.Logging.Level
		cfg.Format = global.Logging.Format
		cfg.Output = global.Logging.Output
	}
	if logLevel != "" {
		cfg.Level = logLevel
	}
	logger = observability.NewLogger(cfg).With().Str("command", cmd.Name()).Logger()
	return nil
}

// mustLoadGlobalConfig loads the global configuration, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	global, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return global
}

// getStartingDirectory returns the directory to start searching for a
// repository: FOLIO_ROOT, then the global root_path, then the working
// directory.
func getStartingDirectory() (string, int) {
	if root := os.Getenv("FOLIO_ROOT"); root != "" {
		return config.ExpandPath(root), 0
	}
	if global, err := config.LoadGlobalConfig(); err == nil && global.RootPath != "" {
		return global.RootPath, 0
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
		exitWithError(ExitConfigError, "%v\n\nRun 'folio init' to create one.", err)
	}
	return repoRoot
}

// mustOpenDatabase opens the SQLite cache, rebuilding it from JSONL when it
// does not exist yet. The caller is responsible for calling Close().
func mustOpenDatabase(repoRoot string) *storage.DB {
	dbPath := config.DBPath(repoRoot)
	_, statErr := os.Stat(dbPath)

	if err := os.MkdirAll(config.CachePath(repoRoot), 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}

	if os.IsNotExist(statErr) {
		count, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot))
		if err != nil {
			db.Close()
			exitWithError(ExitDataError, "building database: %v", err)
		}
		logger.Debug().Int("publications", count).Msg("built query database")
	}
	return db
}

// mustLoadConfig loads repository configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}
