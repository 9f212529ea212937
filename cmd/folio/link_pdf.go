package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-cv/folio/internal/config"
	"github.com/folio-cv/folio/internal/pdf"
	"github.com/folio-cv/folio/internal/storage"
)

var linkPDFForce bool

func init() {
	linkPDFCmd.Flags().BoolVar(&linkPDFForce, "force", false, "Replace an existing DOI link")
	rootCmd.AddCommand(linkPDFCmd)
}

var linkPDFCmd = &cobra.Command{
	Use:   "link-pdf <id> <pdf>",
	Short: "Fill a publication's DOI link from its PDF",
	Long: `Read the DOI printed in the first pages of a PDF and store it as the
publication's doi_link.

Examples:
  folio link-pdf prja2 ~/papers/singh2024.pdf
  folio link-pdf prja2 ~/papers/singh2024.pdf --force`,
	Args: cobra.ExactArgs(2),
	RunE: runLinkPDF,
}

// LinkPDFResult is the response for the link-pdf command.
type LinkPDFResult struct {
	Status  string `json:"status"` // linked, unchanged
	ID      string `json:"id"`
	DOI     string `json:"doi"`
	DOILink string `json:"doi_link"`
	// PDFTitle is the title line read from the PDF, for checking the match.
	PDFTitle string `json:"pdf_title,omitempty"`
}

func runLinkPDF(cmd *cobra.Command, args []string) error {
	id, pdfPath := args[0], config.ExpandPath(args[1])
	repoRoot := mustFindRepository()

	pubsPath := config.PublicationsPath(repoRoot)
	pubs, err := storage.ReadAll(pubsPath)
	if err != nil {
		exitWithError(ExitDataError, "reading publications: %v", err)
	}
	idx, found := storage.FindByID(pubs, id)
	if !found {
		exitWithError(ExitError, "publication not found: %s", id)
	}

	doi, err := pdf.ExtractDOI(pdfPath)
	if err != nil {
		exitWithError(ExitDataError, "reading PDF: %v", err)
	}
	if doi == "" {
		exitWithError(ExitDataError, "no DOI found in the first %d pages of %s", pdf.ScanPages, pdfPath)
	}
	link := "https://doi.org/" + doi

	result := LinkPDFResult{Status: "unchanged", ID: id, DOI: doi, DOILink: link}
	if title, err := pdf.GuessTitle(pdfPath); err == nil {
		result.PDFTitle = title
	}
	current := pubs[idx].DOILink
	switch {
	case current == link:
	case current != "" && !linkPDFForce:
		exitWithError(ExitError, "%s already has doi_link %s (use --force to replace)", id, current)
	default:
		if other, dup := storage.FindByDOI(pubs, link); dup && other != idx {
			exitWithError(ExitDataError, "DOI %s already belongs to %s", doi, pubs[other].ID)
		}
		pubs[idx].DOILink = link
		if err := storage.WriteAll(pubsPath, pubs); err != nil {
			exitWithError(ExitError, "writing publications: %v", err)
		}
		rebuildCache(repoRoot)
		result.Status = "linked"
	}

	logger.Info().Str("publication_id", id).Str("doi", doi).Str("status", result.Status).Msg("link-pdf")
	if humanOutput {
		fmt.Printf("%s: %s %s\n", id, result.Status, link)
		if result.PDFTitle != "" {
			fmt.Printf("  PDF title: %s\n", result.PDFTitle)
		}
	} else {
		outputJSON(result)
	}
	return nil
}
