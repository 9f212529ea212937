package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
)

var initStyle string

func init() {
	initCmd.Flags().StringVar(&initStyle, "style", "", "Default citation style (unset defers to the global default_style, then APA)")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new folio repository",
	Long: `Initialize a new folio repository in the current directory.

Creates:
  .folio/
  ├── publications.jsonl  # Empty file
  ├── config.json         # Default config
  └── cache/              # Empty directory (gitignored)`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	root, exitCode := getStartingDirectory()
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	if config.IsRepository(root) {
		exitWithError(ExitError, "directory already contains a folio repository")
	}
	if err := config.ValidateStyle(initStyle); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if err := os.MkdirAll(config.CachePath(root), 0755); err != nil {
		exitWithError(ExitError, "creating .folio directory: %v", err)
	}

	f, err := os.Create(config.PublicationsPath(root))
	if err != nil {
		exitWithError(ExitError, "creating publications.jsonl: %v", err)
	}
	f.Close()

	if err := os.WriteFile(filepath.Join(config.FolioPath(root), ".gitignore"), []byte(config.CacheDir+"/\n"), 0644); err != nil {
		exitWithError(ExitError, "creating .gitignore: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.DefaultStyle = initStyle
	if err := cfg.Save(root); err != nil {
		exitWithError(ExitError, "creating config.json: %v", err)
	}

	logger.Info().Str("path", root).Msg("initialized repository")
	if humanOutput {
		fmt.Printf("Initialized folio repository in %s\n", root)
	} else {
		outputJSON(StatusResponse{Status: "initialized", Path: root})
	}
	return nil
}
