package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/publication"
)

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the query layer from source data",
	Long: `Rebuild the SQLite query database from publications.jsonl.

Use this after pulling changes from git or editing the JSONL by hand.`,
	RunE: runRebuild,
}

// RebuildResult is the response for the rebuild command.
type RebuildResult struct {
	Status       string         `json:"status"`
	Publications int            `json:"publications"`
	ByType       map[string]int `json:"by_type"`
}

func runRebuild(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	count, err := db.RebuildFromJSONL(config.PublicationsPath(repoRoot))
	if err != nil {
		exitWithError(ExitDataError, "rebuilding database: %v", err)
	}

	counts, err := db.CountByType()
	if err != nil {
		exitWithError(ExitDataError, "counting publications: %v", err)
	}
	result := RebuildResult{Status: "rebuilt", Publications: count, ByType: make(map[string]int)}
	for t, n := range counts {
		result.ByType[string(t)] = n
	}

	if humanOutput {
		fmt.Printf("Rebuilt query database with %d publications\n", count)
		for _, t := range publication.Types {
			if n := counts[t]; n > 0 {
				fmt.Printf("  %-20s %d\n", t.DisplayName(), n)
			}
		}
	} else {
		outputJSON(result)
	}
	return nil
}
