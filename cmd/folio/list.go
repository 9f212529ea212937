package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/publication"
)

var (
	listLimit int
	listType  string
)

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum results to return (0 = all)")
	listCmd.Flags().StringVar(&listType, "type", "", "Only list one publication type (journal, book_chapter, ...)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List publications",
	Long: `List publications, newest first.

Examples:
  folio list
  folio list --type journal
  folio list --limit 10 --human`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	t := publication.Type(listType)
	if t != "" && !t.Valid() {
		exitWithError(ExitError, "unknown publication type: %s", listType)
	}

	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	var pubs []publication.Publication
	var err error
	if t != "" {
		pubs, err = db.ListByType(t)
		if listLimit > 0 && len(pubs) > listLimit {
			pubs = pubs[:listLimit]
		}
	} else {
		pubs, err = db.ListAll(listLimit)
	}
	if err != nil {
		exitWithError(ExitError, "listing publications: %v", err)
	}

	if humanOutput {
		if len(pubs) == 0 {
			fmt.Println("No publications in repository")
			return nil
		}
		total, _ := db.Count()
		fmt.Printf("%d publications (showing %d):\n\n", total, len(pubs))
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
