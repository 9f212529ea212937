package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/publication"
)

var searchLimit int

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results to return")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search publications by keyword",
	Long: `Full-text search over titles, authors, sources and tags.

Examples:
  folio search microfinance
  folio search "urban poverty" --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	query := strings.Join(args, " ")
	pubs, err := db.Search(query, searchLimit)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Printf("No publications match %q\n", query)
			return nil
		}
		fmt.Printf("%d matches for %q:\n\n", len(pubs), query)
		for _, p := range pubs {
			printPubLine(p)
		}
		return nil
	}

	if pubs == nil {
		pubs = []publication.Publication{}
	}
	outputJSON(pubs)
	return nil
}
