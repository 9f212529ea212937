package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/publication"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a single publication by ID",
	Long: `Get a single publication by its ID.

Example:
  folio get prja2`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	repoRoot := mustFindRepository()
	db := mustOpenDatabase(repoRoot)
	defer db.Close()

	p := mustGetPublication(db, args[0])
	if humanOutput {
		printPubDetail(*p)
	} else {
		outputJSON(p)
	}
	return nil
}

// publicationGetter is the lookup half of storage.DB.
type publicationGetter interface {
	GetByID(id string) (*publication.Publication, error)
}

// mustGetPublication loads a publication by ID, exits when missing.
func mustGetPublication(db publicationGetter, id string) *publication.Publication {
	p, err := db.GetByID(id)
	if err != nil {
		exitWithError(ExitError, "getting publication: %v", err)
	}
	if p == nil {
		exitWithError(ExitError, "publication not found: %s", id)
	}
	return p
}

func printPubDetail(p publication.Publication) {
	indent := strings.Repeat(" ", 10)

	fmt.Println(p.ID)
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println()
	fmt.Printf("Title:    %s\n", wrapText(p.Title, TextWrapWidth-10, indent))
	fmt.Printf("Authors:  %s\n", wrapText(p.Authors, TextWrapWidth-10, indent))
	fmt.Printf("Type:     %s\n", p.Type.DisplayName())
	if p.Source != "" {
		fmt.Printf("Source:   %s\n", wrapText(p.Source, TextWrapWidth-10, indent))
	}
	fmt.Printf("Year:     %s\n", p.Year)
	if p.Details != "" {
		fmt.Printf("Details:  %s\n", p.Details)
	}
	if p.Status != "" {
		fmt.Printf("Status:   %s\n", p.Status)
	}
	if p.DOILink != "" {
		fmt.Printf("DOI:      %s\n", p.DOILink)
	}
	if p.Link != "" {
		fmt.Printf("Link:     %s\n", p.Link)
	}
	if len(p.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
}
