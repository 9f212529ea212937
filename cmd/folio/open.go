package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/launch"
)

var openBrowser string

func init() {
	openCmd.Flags().StringVar(&openBrowser, "with", "", "Command used to open the link (default: system handler)")
	rootCmd.AddCommand(openCmd)
}

var openCmd = &cobra.Command{
	Use:   "open <id>",
	Short: "Open a publication's DOI or link",
	Long: `Open a publication's DOI link, or its plain link when it has no DOI,
with the system's default handler.

Examples:
  folio open prja2
  folio open prja2 --with firefox`,
	Args: cobra.ExactArgs(1),
	RunE: runOpen,
}

func runOpen(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	p := mustGetPublication(db, args[0])
	target := p.URL()
	if target == "" {
		exitWithError(ExitError, "publication %s has no DOI or link", p.ID)
	}

	if err := launch.NewOpener(openBrowser).Open(target); err != nil {
		exitWithError(ExitError, "opening %s: %v", target, err)
	}

	if humanOutput {
		fmt.Printf("Opened %s\n", target)
	} else {
		outputJSON(StatusResponse{Status: "opened", Path: target})
	}
	return nil
}
